package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AttemptKey returns the cache key holding a user's in-progress quiz attempt.
func (r *CacheKeyStruct) AttemptKey(userID int, quizID string) string {
	return fmt.Sprintf("user:%d:quiz:%s:attempt", userID, quizID)
}

// AttemptKeyPattern returns the SCAN pattern matching every live attempt
// for a quiz, used by the lecturer monitor stream.
func (r *CacheKeyStruct) AttemptKeyPattern(quizID string) string {
	return fmt.Sprintf("user:*:quiz:%s:attempt", quizID)
}

var CacheKey = NewCacheKeyStruct()
