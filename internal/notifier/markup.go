package notifier

import "strings"

// Спецсимволы MarkdownV2, которые телеграм требует экранировать
const markdownV2Special = "_*[]()~`>#+-=|{}.!\\"

var replacer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(markdownV2Special))
	for _, c := range markdownV2Special {
		pairs = append(pairs, string(c), "\\"+string(c))
	}
	return strings.NewReplacer(pairs...)
}()

func EscapeForMarkdown(src string) string {
	return replacer.Replace(src)
}
