package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReachableTokensFailsOpenWithoutRedis(t *testing.T) {
	prev := RedisClient
	RedisClient = nil
	defer func() { RedisClient = prev }()

	drivers := []driverToken{
		{ID: 1, FCMToken: "tok-1"},
		{ID: 2, FCMToken: "tok-2"},
	}

	tokens := reachableTokens(context.Background(), drivers)
	assert.Equal(t, []string{"tok-1", "tok-2"}, tokens)
}

func TestReachableTokensEmptyInput(t *testing.T) {
	tokens := reachableTokens(context.Background(), nil)
	assert.Empty(t, tokens)
}
