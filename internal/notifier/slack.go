package notifier

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

type Slack struct {
	tokens    TokenSource
	channelID string
	options   []slack.Option
}

func NewSlack(tokens TokenSource, channelID string, options ...slack.Option) *Slack {
	return &Slack{
		tokens:    tokens,
		channelID: channelID,
		options:   options,
	}
}

func (s *Slack) Notify(ctx context.Context, url, review string) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return &TokenError{Err: err}
	}

	api := slack.New(token, s.options...)

	if _, _, err := api.PostMessageContext(ctx, s.channelID, slack.MsgOptionBlocks(Blocks(url, review)...)); err != nil {
		return fmt.Errorf("post slack message to %s: %w", s.channelID, err)
	}

	return nil
}

// Blocks: заголовок, ссылка, разделитель, ревью, разделитель.
func Blocks(url, review string) []slack.Block {
	return []slack.Block{
		section(headerText),
		section(url),
		slack.NewDividerBlock(),
		section(review),
		slack.NewDividerBlock(),
	}
}

func section(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}
