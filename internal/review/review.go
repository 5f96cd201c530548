package review

import (
	"context"
	"errors"
	"fmt"
)

// Reviewer проверяет текст статьи и возвращает заключение модели.
type Reviewer interface {
	Review(ctx context.Context, markdown string) (string, error)
}

// DefaultInstruction системная инструкция для модели.
const DefaultInstruction = `
あなたは企業ブログのレビュワーです

ブログ内に不適切な表現がないかチェックする必要があります。
以下の観点で確認し、問題のある箇所を引用して理由と修正案を示してください。

- 差別的、攻撃的な表現
- 特定の個人や企業を貶める表現
- 機密情報や個人情報と思われる記述
- 誤解を招く断定的な表現

問題がなければ「問題ありません」と回答してください。
`

const promptFormat = "\n以下ブログのレビューお願いします\n\n```\n%s\n```\n"

// ErrEmptyResponse модель ничего не вернула, например ответ заблокирован фильтром.
var ErrEmptyResponse = errors.New("model returned no content")

// Параметры генерации, общие для всех провайдеров
type Settings struct {
	Model           string
	Instruction     string
	MaxOutputTokens int32
	Temperature     float32
	TopP            float32
}

func DefaultSettings(model string) Settings {
	return Settings{
		Model:           model,
		Instruction:     DefaultInstruction,
		MaxOutputTokens: 8192,
		Temperature:     1,
		TopP:            0.95,
	}
}

func (s Settings) instruction() string {
	if s.Instruction == "" {
		return DefaultInstruction
	}
	return s.Instruction
}

// BuildPrompt оборачивает статью в блок кода.
func BuildPrompt(markdown string) string {
	return fmt.Sprintf(promptFormat, markdown)
}
