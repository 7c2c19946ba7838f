package i18n

import (
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lajketz/site/internal/text"
)

//go:embed strings.yaml
var stringsYAML []byte

type Link struct {
	Href  string `yaml:"href"`
	Label string `yaml:"label"`
}

// Strings is the UI copy for one language.
type Strings struct {
	Lang            Lang     `yaml:"-"`
	Locale          string   `yaml:"locale"`
	Months          []string `yaml:"months"`
	DateUnavailable string   `yaml:"date_unavailable"`

	Hero struct {
		Highlight      string `yaml:"highlight"`
		PulseLabel     string `yaml:"pulse_label"`
		PrimaryCta     string `yaml:"primary_cta"`
		SecondaryCta   string `yaml:"secondary_cta"`
		StatForestLoss string `yaml:"stat_forest_loss"`
		StatAlerts     string `yaml:"stat_alerts"`
		StatPosts      string `yaml:"stat_posts"`
	} `yaml:"hero"`

	Header struct {
		Subscribe   string `yaml:"subscribe"`
		ThemeToggle string `yaml:"theme_toggle"`
	} `yaml:"header"`

	Snapshot struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		SeeAll   string `yaml:"see_all"`
	} `yaml:"snapshot"`

	Posts struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		Tag      string `yaml:"tag"`
		Empty    string `yaml:"empty"`
		ReadMore string `yaml:"read_more"`
	} `yaml:"posts"`

	Vlog struct {
		Title               string `yaml:"title"`
		Badge               string `yaml:"badge"`
		SeeAll              string `yaml:"see_all"`
		WatchCta            string `yaml:"watch_cta"`
		FallbackDescription string `yaml:"fallback_description"`
		Empty               string `yaml:"empty"`
	} `yaml:"vlog"`

	Analysis struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		ReadMore string `yaml:"read_more"`
		Empty    string `yaml:"empty"`
	} `yaml:"analysis"`

	Partners struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		Blurb    string `yaml:"blurb"`
		Cta      string `yaml:"cta"`
	} `yaml:"partners"`

	Newsletter struct {
		Eyebrow     string `yaml:"eyebrow"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Button      string `yaml:"button"`
	} `yaml:"newsletter"`

	Units struct {
		Hectares        string `yaml:"hectares"`
		HectaresLost    string `yaml:"hectares_lost"`
		ActiveAlerts    string `yaml:"active_alerts"`
		SeeDetails      string `yaml:"see_details"`
		UpdateAvailable string `yaml:"update_available"`
		DefaultAuthor   string `yaml:"default_author"`
	} `yaml:"units"`

	Blog struct {
		BackHome             string `yaml:"back_home"`
		Archive              string `yaml:"archive"`
		Heading              string `yaml:"heading"`
		Intro                string `yaml:"intro"`
		Empty                string `yaml:"empty"`
		ReadFull             string `yaml:"read_full"`
		DownloadShort        string `yaml:"download_short"`
		TagFallback          string `yaml:"tag_fallback"`
		By                   string `yaml:"by"`
		DocumentPreview      string `yaml:"document_preview"`
		DocumentHint         string `yaml:"document_hint"`
		DownloadTitle        string `yaml:"download_title"`
		DownloadBody         string `yaml:"download_body"`
		DownloadButton       string `yaml:"download_button"`
		DocumentFallbackName string `yaml:"document_fallback_name"`
		ComingSoon           string `yaml:"coming_soon"`
	} `yaml:"blog"`

	Report struct {
		BackHome     string `yaml:"back_home"`
		Weekly       string `yaml:"weekly"`
		ForestLoss   string `yaml:"forest_loss"`
		ActiveAlerts string `yaml:"active_alerts"`
		ComingSoon   string `yaml:"coming_soon"`
	} `yaml:"report"`

	Footer struct {
		Copy  string `yaml:"copy"`
		Links []Link `yaml:"links"`
	} `yaml:"footer"`

	NotFound struct {
		Title string `yaml:"title"`
		Body  string `yaml:"body"`
	} `yaml:"not_found"`

	Error struct {
		Title string `yaml:"title"`
		Body  string `yaml:"body"`
	} `yaml:"error"`
}

var tables = mustLoad(stringsYAML)

func mustLoad(raw []byte) map[Lang]*Strings {
	t, err := load(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func load(raw []byte) (map[Lang]*Strings, error) {
	var decoded map[Lang]*Strings
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("i18n: decode strings: %w", err)
	}
	for _, l := range All {
		s, ok := decoded[l]
		if !ok || s == nil {
			return nil, fmt.Errorf("i18n: missing strings for %q", l)
		}
		if len(s.Months) != 12 {
			return nil, fmt.Errorf("i18n: %q needs 12 month names, got %d", l, len(s.Months))
		}
		s.Lang = l
	}
	return decoded, nil
}

// For returns the string table for l, or the default language's table.
func For(l Lang) *Strings {
	if s, ok := tables[l]; ok {
		return s
	}
	return tables[Default]
}

// FormatDate renders a raw store date as a long localized date. ok is false
// only when raw is empty; a value that does not parse is returned verbatim.
func (s *Strings) FormatDate(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	t, parsed := text.ParseDate(raw)
	if !parsed {
		return raw, true
	}
	return s.formatTime(t), true
}

// DateOrFallback is FormatDate with the "date unavailable" copy for empty input.
func (s *Strings) DateOrFallback(raw string) string {
	if formatted, ok := s.FormatDate(raw); ok {
		return formatted
	}
	return s.DateUnavailable
}

func (s *Strings) formatTime(t time.Time) string {
	month := s.Months[t.Month()-1]
	if s.Lang == EN {
		return month + " " + strconv.Itoa(t.Day()) + ", " + strconv.Itoa(t.Year())
	}
	return strconv.Itoa(t.Day()) + " de " + month + " de " + strconv.Itoa(t.Year())
}

// Copyright returns the footer line for the given year.
func (s *Strings) Copyright(year int) string {
	return fmt.Sprintf(s.Footer.Copy, year)
}
