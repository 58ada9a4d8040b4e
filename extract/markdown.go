package extract

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// mdConverter is a reusable, goroutine-safe converter for the "markdown"
// output format: base plugin strips script/style/head noise, commonmark
// renders standard Markdown, and the table plugin keeps any score tables
// the service renders.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(
			table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
		),
	),
)

// Markdown converts extracted report HTML to Markdown. The domain resolves
// relative links so the output is self-contained.
func Markdown(htmlContent, domain string) (string, error) {
	return mdConverter.ConvertString(htmlContent, converter.WithDomain(domain))
}
