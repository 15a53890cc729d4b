package services

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"
)

const DefaultNutritionURL = "https://api.edamam.com/api/nutrition-data"

type NutritionConfig struct {
	BaseURL string
	AppID   string
	AppKey  string
	Timeout time.Duration
}

type NutritionService struct {
	client HTTPClient
	cfg    NutritionConfig
}

func NewNutritionService(client HTTPClient, cfg NutritionConfig) *NutritionService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNutritionURL
	}
	return &NutritionService{client: client, cfg: cfg}
}

// LookupURL asks for a single unit of food ("1 apple").
func (s *NutritionService) LookupURL(food string) string {
	q := url.Values{}
	q.Set("app_id", s.cfg.AppID)
	q.Set("app_key", s.cfg.AppKey)
	ingr := strings.ReplaceAll(url.QueryEscape("1 "+food), "+", "%20")
	return s.cfg.BaseURL + "?" + q.Encode() + "&ingr=" + ingr
}

type nutritionPayload struct {
	Ingredients []struct {
		Parsed []struct {
			Nutrients map[string]Nutrient `json:"nutrients"`
		} `json:"parsed"`
	} `json:"ingredients"`
}

// Lookup returns the nutrients of the first parsed ingredient, sorted by key.
// A nil slice with a nil error means the food was not recognised.
func (s *NutritionService) Lookup(ctx context.Context, food string) ([]Nutrient, error) {
	food = strings.TrimSpace(food)
	if food == "" {
		return nil, NewInvalidError("food required")
	}
	var p nutritionPayload
	if err := getJSON(ctx, s.client, s.LookupURL(food), nil, s.cfg.Timeout, &p); err != nil {
		return nil, err
	}
	if len(p.Ingredients) == 0 || len(p.Ingredients[0].Parsed) == 0 {
		return nil, nil
	}
	m := p.Ingredients[0].Parsed[0].Nutrients
	if len(m) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Nutrient, 0, len(keys))
	for _, k := range keys {
		n := m[k]
		n.Key = k
		out = append(out, n)
	}
	return out, nil
}
