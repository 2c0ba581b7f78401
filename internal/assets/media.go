package assets

import (
	"sort"
	"strings"
)

// MediumScreen is the only medium the editor stylesheets target.
const MediumScreen = "screen"

// Media lists the stylesheets (per medium) and scripts a widget needs.
type Media struct {
	CSS map[string][]string
	JS  []string
}

// MediaConfig carries the locations used to build the editor media.
type MediaConfig struct {
	StaticURL string
	JQueryURL string
	Set       string
	Skin      string
	// Themes resolves skins registered as go-theme manifests. Optional.
	Themes *Themes
}

// EditorMedia returns the editor media: skin and set stylesheets, then
// jQuery (when configured), the CSRF helper, the editor, the set script and
// the init script. Skins registered in cfg.Themes take their files from the
// theme manifest.
func EditorMedia(cfg MediaConfig) Media {
	set := cfg.Set
	if strings.TrimSpace(set) == "" {
		set = DefaultSet
	}
	skin := cfg.Skin
	if strings.TrimSpace(skin) == "" {
		skin = DefaultSkin
	}
	setURL := AbsoluteURL(cfg.StaticURL, set)
	skinURL := AbsoluteURL(cfg.StaticURL, skin)
	skinStyle := Join(skinURL, StyleFile)
	setStyle := Join(setURL, StyleFile)
	setScript := Join(setURL, SetScriptFile)
	if files, ok := cfg.Themes.files(skin, cfg.Set); ok {
		if file := files[ThemeSkinStyle]; file != "" {
			skinStyle = AbsoluteURL(cfg.StaticURL, file)
		}
		if file := files[ThemeSetStyle]; file != "" {
			setStyle = AbsoluteURL(cfg.StaticURL, file)
		}
		if file := files[ThemeSetScript]; file != "" {
			setScript = AbsoluteURL(cfg.StaticURL, file)
		}
	}

	var js []string
	if jq := strings.TrimSpace(cfg.JQueryURL); jq != "" {
		js = append(js, AbsoluteURL(cfg.StaticURL, jq))
	}
	js = append(js,
		AbsoluteURL(cfg.StaticURL, CSRFScript),
		AbsoluteURL(cfg.StaticURL, EditorScript),
		setScript,
		AbsoluteURL(cfg.StaticURL, InitScript),
	)

	return Media{
		CSS: map[string][]string{
			MediumScreen: {skinStyle, setStyle},
		},
		JS: js,
	}
}

// Merge combines media, dropping duplicate URLs while keeping first-seen
// order.
func (m Media) Merge(others ...Media) Media {
	out := Media{CSS: map[string][]string{}}
	all := append([]Media{m}, others...)
	seenJS := map[string]struct{}{}
	seenCSS := map[string]map[string]struct{}{}
	for _, media := range all {
		for _, medium := range sortedMediums(media.CSS) {
			if seenCSS[medium] == nil {
				seenCSS[medium] = map[string]struct{}{}
			}
			for _, href := range media.CSS[medium] {
				if _, ok := seenCSS[medium][href]; ok {
					continue
				}
				seenCSS[medium][href] = struct{}{}
				out.CSS[medium] = append(out.CSS[medium], href)
			}
		}
		for _, src := range media.JS {
			if _, ok := seenJS[src]; ok {
				continue
			}
			seenJS[src] = struct{}{}
			out.JS = append(out.JS, src)
		}
	}
	return out
}

// RenderCSS renders one link tag per stylesheet, mediums in sorted order.
func (m Media) RenderCSS() string {
	var lines []string
	for _, medium := range sortedMediums(m.CSS) {
		for _, href := range m.CSS[medium] {
			lines = append(lines, `<link href="`+EscapeAttr(href)+`" type="text/css" media="`+EscapeAttr(medium)+`" rel="stylesheet" />`)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderJS renders one script tag per script.
func (m Media) RenderJS() string {
	lines := make([]string, 0, len(m.JS))
	for _, src := range m.JS {
		lines = append(lines, `<script type="text/javascript" src="`+EscapeAttr(src)+`"></script>`)
	}
	return strings.Join(lines, "\n")
}

// Render renders stylesheets followed by scripts.
func (m Media) Render() string {
	parts := make([]string, 0, 2)
	if css := m.RenderCSS(); css != "" {
		parts = append(parts, css)
	}
	if js := m.RenderJS(); js != "" {
		parts = append(parts, js)
	}
	return strings.Join(parts, "\n")
}

func (m Media) String() string { return m.Render() }

func sortedMediums(css map[string][]string) []string {
	mediums := make([]string, 0, len(css))
	for medium := range css {
		mediums = append(mediums, medium)
	}
	sort.Strings(mediums)
	return mediums
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeAttr escapes s for use inside a double-quoted HTML attribute or text
// node.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
