// Package post renders generated briefings into Hugo markdown documents.
package post

import (
	"bytes"
	"fmt"
	"html"
	"path"
	"regexp"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/analystbot/internal/generate"
	"github.com/deusflow/analystbot/internal/media"
	"github.com/deusflow/analystbot/internal/news"
)

// DefaultFolder receives categories missing from the folder map.
const DefaultFolder = "posts"

const (
	disclaimer  = "※ 본 분석은 글로벌 시장 뉴스 바탕으로 작성되었으며, 투자 조언이 아닙니다. 모든 투자의 책임은 투자자 본인에게 있습니다."
	sourceLabel = "원문 링크"
	sourceLink  = "보러가기"
)

var fixedTags = []string{"Market Insight", "Analysis"}

// Document is a rendered post ready to publish.
type Document struct {
	Title       string
	SourceTitle string // headline of the feed entry
	Folder      string
	Filename    string
	Content     string
	Date        time.Time
}

// Path returns the destination path below root.
func (d Document) Path(root string) string {
	return path.Join(root, d.Folder, d.Filename)
}

type frontMatter struct {
	Title      string    `yaml:"title"`
	Date       time.Time `yaml:"date"`
	Draft      bool      `yaml:"draft"`
	Categories []string  `yaml:"categories"`
	Tags       []string  `yaml:"tags"`
}

var pageTemplate = template.Must(template.New("post").Parse(`---
{{.FrontMatter}}---

![{{.Alt}}]({{.ImageURL}})
*<small>{{.Attribution}}</small>*

{{.Body}}

---
*{{.Disclaimer}}*

*{{.SourceLabel}}: <a href="{{.Link}}" target="_blank" rel="noopener noreferrer">{{.LinkText}}</a>*
`))

type Assembler struct {
	folders map[string]string
}

// NewAssembler creates an assembler using folders to map categories to
// content folders.
func NewAssembler(folders map[string]string) *Assembler {
	if folders == nil {
		folders = map[string]string{"Money": "money", "Tools": "tools"}
	}
	return &Assembler{folders: folders}
}

// FolderFor returns the content folder for category.
func (a *Assembler) FolderFor(category string) string {
	if f, ok := a.folders[category]; ok && f != "" {
		return f
	}
	return DefaultFolder
}

// Assemble renders the post for article. now is the run time in the site's
// zone and drives the date, filename and nothing else.
func (a *Assembler) Assemble(article generate.Article, asset media.Asset, item news.Item, category string, now time.Time) (Document, error) {
	title, body := ExtractTitle(article.Text, item.Title)
	body = ApplyCallouts(body)

	fm, err := encodeFrontMatter(frontMatter{
		Title:      title,
		Date:       now,
		Draft:      false,
		Categories: []string{category},
		Tags:       append([]string{category}, fixedTags...),
	})
	if err != nil {
		return Document{}, err
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, map[string]string{
		"FrontMatter": fm,
		"Alt":         strings.NewReplacer("[", "(", "]", ")").Replace(asset.Alt),
		"ImageURL":    asset.URL,
		"Attribution": asset.Attribution,
		"Body":        body,
		"Disclaimer":  disclaimer,
		"SourceLabel": sourceLabel,
		"Link":        html.EscapeString(item.Link),
		"LinkText":    sourceLink,
	})
	if err != nil {
		return Document{}, fmt.Errorf("render post: %w", err)
	}

	return Document{
		Title:       title,
		SourceTitle: item.Title,
		Folder:      a.FolderFor(category),
		Filename:    Filename(category, now),
		Content:     buf.String(),
		Date:        now,
	}, nil
}

func encodeFrontMatter(fm frontMatter) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	return buf.String(), nil
}

// Stamp formats the run time for filenames and placeholder image seeds.
func Stamp(now time.Time) string {
	return now.Format("2006-01-02-150405")
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Filename derives the post file name from category and run time.
func Filename(category string, now time.Time) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(category, "-"), "-")
	if slug == "" {
		slug = "news"
	}
	return fmt.Sprintf("news-%s-%s.md", slug, Stamp(now))
}

var titleLabel = regexp.MustCompile(`(?i)^(title|제목)\s*[:：]\s*`)

// ExtractTitle splits generated text into a title and body. Heuristic: when
// the first line is not a markdown heading it is taken as the title (with a
// leading "Title:" label and emphasis removed) and the rest is the body;
// otherwise fallback is the title and the whole text is the body. Backends do
// not always follow the requested format, so this is best effort.
func ExtractTitle(text, fallback string) (string, string) {
	text = strings.TrimSpace(text)
	first, rest, _ := strings.Cut(text, "\n")

	if text == "" || strings.HasPrefix(first, "#") || isMarkerLine(first) {
		return fallback, text
	}

	title := strings.TrimSpace(first)
	title = strings.Trim(title, "*_ ")
	title = titleLabel.ReplaceAllString(title, "")
	title = strings.Trim(title, "*_\"' ")
	if title == "" {
		title = fallback
	}
	return title, strings.TrimSpace(rest)
}

// isMarkerLine reports whether line opens a section: either the bare marker
// ("## Key Facts", "**Analyst's Insight:**") or a marker label followed by
// text ("**Key Facts:** Bitcoin ..."). Headlines that merely contain a
// marker phrase are not marker lines.
func isMarkerLine(line string) bool {
	bare := strings.Trim(line, " \t#*_:：")
	if bare == generate.FactsMarker || bare == generate.InsightMarker {
		return true
	}
	return markerHeading(line, generate.FactsMarker) || markerHeading(line, generate.InsightMarker)
}

// markerHeading reports whether line starts with marker as a heading or a
// bold label, optionally followed by text on the same line.
func markerHeading(line, marker string) bool {
	s := strings.TrimLeft(line, " \t#*_>")
	if !strings.HasPrefix(s, marker) {
		return false
	}
	rest := strings.TrimLeft(s[len(marker):], "*_ \t")
	return rest == "" || strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "：")
}

const (
	factsOpen   = "<div class='callout callout-key-facts'>\n<span class='callout-title'>" + generate.FactsMarker + "</span>\n"
	insightOpen = "<div class='callout callout-insight'>\n<span class='callout-title'>" + generate.InsightMarker + "</span>\n"
	boxClose    = "</div>"
)

// ApplyCallouts replaces the first occurrence of each section marker with a
// highlighted box header. Text sharing the marker's line is kept: what
// precedes the marker stays above the header and what follows it becomes the
// first line of the box. The facts box is closed where the insight box opens;
// whichever box is open last is closed at the end of the body, so the output
// never contains an unclosed box.
func ApplyCallouts(body string) string {
	lines := strings.Split(body, "\n")

	facts := indexOf(lines, generate.FactsMarker, 0)
	from := 0
	if facts >= 0 {
		from = facts + 1
	}
	insight := indexOf(lines, generate.InsightMarker, from)

	if facts < 0 && insight < 0 {
		return body
	}
	if facts >= 0 {
		lines[facts] = replaceMarker(lines[facts], generate.FactsMarker, factsOpen)
	}
	if insight >= 0 {
		header := insightOpen
		if facts >= 0 {
			header = boxClose + "\n\n" + insightOpen
		}
		lines[insight] = replaceMarker(lines[insight], generate.InsightMarker, header)
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n" + boxClose
}

// indexOf finds the first marker heading at or after from, falling back to
// the first line mentioning marker anywhere.
func indexOf(lines []string, marker string, from int) int {
	for i := from; i < len(lines); i++ {
		if markerHeading(lines[i], marker) {
			return i
		}
	}
	for i := from; i < len(lines); i++ {
		if strings.Contains(lines[i], marker) {
			return i
		}
	}
	return -1
}

// replaceMarker swaps marker in line for header, dropping the markdown
// decoration wrapped around the marker.
func replaceMarker(line, marker, header string) string {
	i := strings.Index(line, marker)
	before := strings.TrimSpace(strings.TrimLeft(strings.TrimRight(line[:i], " \t#*_"), " \t#*_>"))
	after := strings.TrimSpace(strings.TrimLeft(line[i+len(marker):], " \t*_:："))

	out := header + after
	if before != "" {
		out = before + "\n\n" + out
	}
	return out
}
