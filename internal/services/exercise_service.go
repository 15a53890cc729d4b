package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"
)

const (
	DefaultExerciseBase = "https://exercisedb.p.rapidapi.com"
	DefaultExerciseHost = "exercisedb.p.rapidapi.com"
	imageFallbackBase   = "https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/exercises"
)

// BodyParts is the ExerciseDB body-part list offered by the filter form.
var BodyParts = []string{
	"back", "cardio", "chest", "lower arms", "lower legs",
	"neck", "shoulders", "upper arms", "upper legs", "waist",
}

type ExerciseConfig struct {
	BaseURL string
	Host    string
	APIKey  string
	Limit   int
	Timeout time.Duration
}

type ExerciseService struct {
	client     HTTPClient
	translator *BatchTranslator
	cfg        ExerciseConfig
}

func NewExerciseService(client HTTPClient, translator *BatchTranslator, cfg ExerciseConfig) *ExerciseService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultExerciseBase
	}
	if cfg.Host == "" {
		cfg.Host = DefaultExerciseHost
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 30
	}
	if translator == nil {
		translator = NewBatchTranslator(nil, "", "")
	}
	return &ExerciseService{client: client, translator: translator, cfg: cfg}
}

// ExercisesURL builds the listing URL; "all" (or empty) lists every body part.
func (s *ExerciseService) ExercisesURL(bodyPart string) string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	page := fmt.Sprintf("limit=%d&offset=0", s.cfg.Limit)
	if bodyPart == "" || bodyPart == "all" {
		return base + "/exercises?" + page
	}
	return base + "/exercises/bodyPart/" + url.PathEscape(bodyPart) + "?" + page
}

// List fetches exercises for bodyPart. A payload that is not a JSON list yields
// no records and no error, matching the upstream's error-object responses.
// Null entries in the list are dropped.
func (s *ExerciseService) List(ctx context.Context, bodyPart string) ([]*Exercise, error) {
	headers := map[string]string{
		"X-RapidAPI-Key":  s.cfg.APIKey,
		"X-RapidAPI-Host": s.cfg.Host,
	}
	var raw json.RawMessage
	if err := getJSON(ctx, s.client, s.ExercisesURL(bodyPart), headers, s.cfg.Timeout, &raw); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return []*Exercise{}, nil
	}
	var out []*Exercise
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, NewBadGatewayError("malformed exercise list: " + err.Error())
	}
	records := out[:0]
	for _, e := range out {
		if e != nil {
			records = append(records, e)
		}
	}
	return records, nil
}

// LocalizeReport records the outcome of both batch calls made by Localize.
type LocalizeReport struct {
	Descriptions BatchResult
	Instructions BatchResult
}

// Localize attaches translated descriptions and instruction groups to each record
// using two batch calls in total, and fills in missing images.
func (s *ExerciseService) Localize(ctx context.Context, records []*Exercise) LocalizeReport {
	descs := make([]string, len(records))
	for i, e := range records {
		descs[i] = e.Description
	}
	flat, lengths := FlattenInstructions(records)

	rep := LocalizeReport{
		Descriptions: s.translator.Batch(ctx, descs),
		Instructions: s.translator.Batch(ctx, flat),
	}
	groups := lengths.Partition(rep.Instructions.Texts)
	for i, e := range records {
		e.LocalizedDescription = rep.Descriptions.Texts[i]
		e.LocalizedInstructions = groups[i]
		if e.GifURL == "" {
			e.GifURL = FallbackImageURL(e.Name)
		}
	}
	return rep
}

// LengthIndex holds the number of instruction steps of each record, in order.
type LengthIndex []int

// FlattenInstructions concatenates every record's steps, keeping each record's
// steps contiguous and records in order.
func FlattenInstructions(records []*Exercise) ([]string, LengthIndex) {
	lengths := make(LengthIndex, len(records))
	var flat []string
	for i, e := range records {
		lengths[i] = len(e.Instructions)
		flat = append(flat, e.Instructions...)
	}
	return flat, lengths
}

// Partition splits flat back into one group per record by advancing a cursor by
// each recorded length. Groups past the end of flat come back short rather than panic.
func (li LengthIndex) Partition(flat []string) [][]string {
	groups := make([][]string, len(li))
	cursor := 0
	for i, n := range li {
		start := min(cursor, len(flat))
		end := min(cursor+n, len(flat))
		groups[i] = flat[start:end:end]
		cursor += n
	}
	return groups
}

// FallbackImageURL points at the free-exercise-db image for name, e.g.
// "barbell curl" -> .../exercises/Barbell_Curl/0.jpg.
func FallbackImageURL(name string) string {
	folder := titleWords(strings.ReplaceAll(name, " ", "_"))
	return imageFallbackBase + "/" + folder + "/0.jpg"
}

// titleWords upper-cases the first letter of every run of letters and
// lower-cases the rest; any non-letter starts a new word.
func titleWords(s string) string {
	out := []rune(s)
	prevLetter := false
	for i, r := range out {
		if unicode.IsLetter(r) {
			if prevLetter {
				out[i] = unicode.ToLower(r)
			} else {
				out[i] = unicode.ToTitle(r)
			}
			prevLetter = true
			continue
		}
		prevLetter = false
	}
	return string(out)
}
