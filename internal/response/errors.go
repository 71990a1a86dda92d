package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrAccountPending     ErrCode = "ACCOUNT_PENDING"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly  ErrCode = "STUDENT_ACCESS_ONLY"
	ErrLecturerAccessOnly ErrCode = "LECTURER_ACCESS_ONLY"
	ErrAdminAccessOnly    ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Attempt lifecycle ─────────────────────────────────────────────
	ErrNoQuestions      ErrCode = "NO_QUESTIONS"
	ErrAttemptNotFound  ErrCode = "ATTEMPT_NOT_FOUND"
	ErrOutOfSequence    ErrCode = "OUT_OF_SEQUENCE"
	ErrQuestionCorrupt  ErrCode = "QUESTION_CORRUPT"
	ErrPersistenceFail  ErrCode = "PERSISTENCE_FAILED"
	ErrQuizNotPublished ErrCode = "QUIZ_NOT_PUBLISHED"
	ErrNotQuizAuthor    ErrCode = "NOT_QUIZ_AUTHOR"
	ErrQuestionLimit    ErrCode = "QUESTION_LIMIT_REACHED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrAccountPending:
		return "Your account is awaiting approval by an administrator."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrLecturerAccessOnly:
		return "This resource is restricted to lecturers."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "This record cannot be deleted because other records depend on it."

	// ─── Attempt lifecycle ─────────────────────────────────────────────
	case ErrNoQuestions:
		return "This quiz has no questions."
	case ErrAttemptNotFound:
		return "No attempt in progress for this quiz."
	case ErrOutOfSequence:
		return "Answer received out of sequence. Fetch the current question and retry."
	case ErrQuestionCorrupt:
		return "A question in this attempt could not be loaded. The attempt has been cancelled."
	case ErrPersistenceFail:
		return "Your attempt has ended but the score may not have been saved. Contact your lecturer."
	case ErrQuizNotPublished:
		return "This quiz has not been published."
	case ErrNotQuizAuthor:
		return "You are not the author of this quiz."
	case ErrQuestionLimit:
		return "This quiz already has the maximum number of questions."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
