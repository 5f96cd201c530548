package secret

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapAccessor map[string]string

func (m mapAccessor) Access(_ context.Context, name string) (string, error) {
	v, ok := m[name]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestVersionName(t *testing.T) {
	assert.Equal(t,
		"projects/my-project/secrets/blog-auto-review-slack-bot-token/versions/latest",
		VersionName("my-project", "blog-auto-review-slack-bot-token"),
	)
}

func TestToken(t *testing.T) {
	acc := mapAccessor{
		"projects/p/secrets/blog-auto-review-slack-bot-token/versions/latest": "xoxb-1",
	}

	token, err := NewToken(acc, "p", "blog-auto-review-slack-bot-token").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "xoxb-1", token)

	_, err = NewToken(acc, "other", "blog-auto-review-slack-bot-token").Token(context.Background())
	assert.Error(t, err)
}
