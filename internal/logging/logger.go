package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Logger пишет строку на запись. В JSON режиме поля severity и message
// разбирает Cloud Logging, в текстовом режиме удобно читать локально.
type Logger struct {
	json   bool
	l      *log.Logger
	fields []Field
}

type Field struct {
	Key string
	Val any
}

func New(jsonEnabled bool) *Logger {
	return NewWithWriter(os.Stdout, jsonEnabled)
}

func NewWithWriter(w io.Writer, jsonEnabled bool) *Logger {
	return &Logger{
		json: jsonEnabled,
		l:    log.New(w, "", 0),
	}
}

// With возвращает логгер, который добавляет fields к каждой записи.
func (lg *Logger) With(fields ...Field) *Logger {
	merged := make([]Field, 0, len(lg.fields)+len(fields))
	merged = append(merged, lg.fields...)
	merged = append(merged, fields...)

	return &Logger{json: lg.json, l: lg.l, fields: merged}
}

func (lg *Logger) Info(msg string, fields ...Field) {
	lg.print("info", msg, fields...)
}

func (lg *Logger) Warn(msg string, fields ...Field) {
	lg.print("warning", msg, fields...)
}

func (lg *Logger) Error(msg string, fields ...Field) {
	lg.print("error", msg, fields...)
}

func (lg *Logger) print(level, msg string, fields ...Field) {
	all := append(append([]Field{}, lg.fields...), fields...)

	if lg.json {
		payload := map[string]any{
			"time":     time.Now().Format(time.RFC3339),
			"severity": strings.ToUpper(level),
			"message":  msg,
		}
		for _, f := range all {
			payload[f.Key] = value(f.Val)
		}

		b, err := json.Marshal(payload)
		if err != nil {
			// Поле, которое не сериализуется, пишем как строку
			for _, f := range all {
				if _, ferr := json.Marshal(payload[f.Key]); ferr != nil {
					payload[f.Key] = fmt.Sprintf("%v", f.Val)
				}
			}
			b, _ = json.Marshal(payload)
		}
		lg.l.Println(string(b))
		return
	}

	parts := []string{time.Now().Format(time.RFC3339), strings.ToUpper(level), msg}
	for _, f := range all {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Val))
	}
	lg.l.Println(strings.Join(parts, " "))
}

// error не сериализуется в json сам по себе
func value(v any) any {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}

func Err(err error) Field {
	return Field{Key: "err", Val: err}
}
