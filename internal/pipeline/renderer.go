package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/minthub/mintassist/internal/model"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Renderer writes assistant responses for terminals, scripts and pages
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer. Verbose text output adds the score line.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// Render writes resp in the given format
func (r *Renderer) Render(w io.Writer, resp model.ChosenResponse, format string) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return r.Text(w, resp)
	case FormatJSON:
		return r.JSON(w, resp)
	case FormatHTML:
		return r.HTML(w, resp)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// Text writes the answer with its line breaks, then confidence, link and
// suggestions when present
func (r *Renderer) Text(w io.Writer, resp model.ChosenResponse) error {
	var b strings.Builder

	b.WriteString(resp.Answer)
	b.WriteString("\n")

	if resp.Confidence > 0 {
		fmt.Fprintf(&b, "Độ tin cậy: %.0f%%\n", resp.Confidence)
	}
	if resp.RelatedLink != "" {
		fmt.Fprintf(&b, "Xem thêm: %s\n", resp.RelatedLink)
	}
	if len(resp.Suggestions) > 0 {
		fmt.Fprintf(&b, "Gợi ý: %s\n", strings.Join(resp.Suggestions, " | "))
	}
	if r.verbose && !resp.Fallback {
		fmt.Fprintf(&b, "[entry %d, score %d, keywords %s]\n",
			resp.EntryIndex, resp.Score, strings.Join(resp.MatchedKeywords, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes resp as one JSON object followed by a newline
func (r *Renderer) JSON(w io.Writer, resp model.ChosenResponse) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}

// HTML writes the chat bubble fragment shown on the storefront. Answer
// text is escaped and line breaks become <br>.
func (r *Renderer) HTML(w io.Writer, resp model.ChosenResponse) error {
	bubble := element(atom.Div, "chat-message bot")
	content := element(atom.Div, "message-content")
	bubble.AppendChild(content)

	msg := element(atom.Div, "message-text")
	for i, line := range strings.Split(resp.Answer, "\n") {
		if i > 0 {
			msg.AppendChild(&html.Node{Type: html.ElementNode, DataAtom: atom.Br, Data: "br"})
		}
		msg.AppendChild(&html.Node{Type: html.TextNode, Data: line})
	}
	content.AppendChild(msg)

	if resp.Confidence > 0 {
		conf := element(atom.Div, "confidence-score")
		conf.AppendChild(&html.Node{Type: html.TextNode, Data: fmt.Sprintf("Độ tin cậy: %.0f%%", resp.Confidence)})
		content.AppendChild(conf)
	}

	if resp.RelatedLink != "" {
		wrap := element(atom.Div, "related-link")
		a := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.A,
			Data:     "a",
			Attr: []html.Attribute{
				{Key: "href", Val: resp.RelatedLink},
				{Key: "target", Val: "_blank"},
			},
		}
		a.AppendChild(&html.Node{Type: html.TextNode, Data: "Xem thêm"})
		wrap.AppendChild(a)
		content.AppendChild(wrap)
	}

	if len(resp.Suggestions) > 0 {
		quick := element(atom.Div, "quick-suggestions")
		for _, s := range resp.Suggestions {
			btn := element(atom.Button, "suggestion-btn")
			btn.Attr = append(btn.Attr, html.Attribute{Key: "data-ask", Val: s})
			btn.AppendChild(&html.Node{Type: html.TextNode, Data: s})
			quick.AppendChild(btn)
		}
		content.AppendChild(quick)
	}

	if err := html.Render(w, bubble); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Explain writes the ranked candidates as a table, strongest first
func (r *Renderer) Explain(w io.Writer, candidates []model.Candidate, limit int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tENTRY\tSCORE\tWORDS\tPHRASES\tPERCENT\tKEYWORDS")

	for i, c := range candidates {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d/%d\t%d\t%.0f%%\t%s\n",
			i+1, c.Index, c.Result.Score,
			c.Result.MatchedWords, c.Result.TotalWords,
			c.Result.PhraseHits, c.Result.Percentage,
			strings.Join(c.Entry.Keywords, ", "))
	}

	return tw.Flush()
}

func element(a atom.Atom, class string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
}
