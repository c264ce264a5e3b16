// Package markdown рендерит Markdown черновика в HTML для предпросмотра.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer превращает Markdown в HTML. Экземпляр не хранит состояния
// между вызовами и может использоваться из нескольких горутин.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer создаёт рендерер с расширениями GFM. Сырой HTML из текста
// пользователя или ответа модели не выводится.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render возвращает HTML для предпросмотра.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown: рендеринг: %w", err)
	}
	return buf.String(), nil
}
