package assemble

import (
	"net/url"
	"regexp"
	"strings"
)

var youTubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// youTubeThumbnail derives the poster image for a YouTube link, or "" for
// anything else.
func youTubeThumbnail(raw string) string {
	id := youTubeVideoID(raw)
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
}

func youTubeVideoID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 && (parts[0] == "embed" || parts[0] == "shorts" || parts[0] == "live") {
			id = parts[1]
		}
	}
	if !youTubeID.MatchString(id) {
		return ""
	}
	return id
}
