package parse

import (
	"log/slog"
	"regexp"

	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

// DefaultTagPrefix is the site-name prefix shared by every registered client.
const DefaultTagPrefix = "Oia"

// '#' is often read as 't', and 'O' as '0'.
var reClientTag = regexp.MustCompile(`(?i)[#t][O0]ia\s+([\p{L}\p{N}_]+)`)

// ClientTagMatcher resolves an explicit "#Oia <Name>" tag to a registered client.
type ClientTagMatcher struct {
	prefix string
	names  map[string]struct{}
	logger *slog.Logger
}

func NewClientTagMatcher(sites []entity.ClientSite, logger *slog.Logger) *ClientTagMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	names := make(map[string]struct{}, len(sites))
	for _, s := range sites {
		names[s.Name] = struct{}{}
	}
	return &ClientTagMatcher{prefix: DefaultTagPrefix, names: names, logger: logger}
}

// Match returns the registered client named by the first tag in text.
// A tag naming an unknown client yields false, same as no tag.
func (m *ClientTagMatcher) Match(text string) (string, bool) {
	sub := reClientTag.FindStringSubmatch(text)
	if sub == nil {
		m.logger.Debug("no client tag in text")
		return "", false
	}
	word := sub[1]
	for _, candidate := range []string{m.prefix + " " + word, word} {
		if _, ok := m.names[candidate]; ok {
			m.logger.Info("client tag matched", "client", candidate)
			return candidate, true
		}
	}
	m.logger.Warn("unknown client", "tag", sub[0], "word", word)
	return "", false
}
