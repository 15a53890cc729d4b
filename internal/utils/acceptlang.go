package utils

import (
	"sort"
	"strconv"
	"strings"
)

// DetermineLocale picks the UI locale: an explicit ?lang= value wins, then the
// highest-weighted Accept-Language entry, then def. Regional tags (es-MX) match
// their base language.
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	sup := make(map[string]struct{}, len(supported))
	for _, s := range supported {
		sup[strings.ToLower(s)] = struct{}{}
	}
	match := func(tag string) (string, bool) {
		l := strings.ToLower(strings.TrimSpace(tag))
		if l == "" {
			return "", false
		}
		if _, ok := sup[l]; ok {
			return l, true
		}
		if base, _, found := strings.Cut(l, "-"); found {
			if _, ok := sup[base]; ok {
				return base, true
			}
		}
		return "", false
	}

	if v, ok := match(queryLang); ok {
		return v
	}

	type weighted struct {
		lang string
		q    float64
	}
	var cands []weighted
	for _, part := range strings.Split(acceptLang, ",") {
		tag, params, _ := strings.Cut(part, ";")
		l, ok := match(tag)
		if !ok {
			continue
		}
		cands = append(cands, weighted{lang: l, q: parseQuality(params)})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].q > cands[j].q })
	if len(cands) > 0 && cands[0].q > 0 {
		return cands[0].lang
	}
	if v, ok := match(def); ok {
		return v
	}
	if len(supported) > 0 {
		return strings.ToLower(supported[0])
	}
	return "es"
}

// parseQuality reads "q=0.8" from an Accept-Language parameter list; absent or
// unparsable weights count as 1.
func parseQuality(params string) float64 {
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || strings.TrimSpace(k) != "q" {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || q < 0 || q > 1 {
			return 1
		}
		return q
	}
	return 1
}
