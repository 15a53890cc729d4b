package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/soaringjerry/fitpages/internal/middleware"
	"github.com/soaringjerry/fitpages/internal/services"
	"github.com/soaringjerry/fitpages/internal/utils"
)

type navLink struct {
	Path   string
	Key    string
	Active bool
}

type pageData struct {
	Title string
	Lang  string
	Nav   []navLink
}

func (rt *Router) basePage(r *http.Request, titleKey string) pageData {
	lang := middleware.LocaleFromContext(r.Context())
	links := []navLink{
		{Path: "/", Key: "title.home"},
		{Path: "/ejercicios", Key: "title.exercises"},
		{Path: "/nutricion", Key: "title.nutrition"},
	}
	for i := range links {
		links[i].Active = links[i].Key == titleKey
	}
	return pageData{Title: utils.T(lang, titleKey), Lang: lang, Nav: links}
}

// translationContext turns translation off when the reader asked for the
// source language.
func (rt *Router) translationContext(r *http.Request) context.Context {
	ctx := r.Context()
	if middleware.LocaleFromContext(ctx) == rt.deps.SourceLang {
		return services.WithTargetLanguage(ctx, rt.deps.SourceLang)
	}
	return ctx
}

type homePage struct {
	pageData
	Quote  string
	Author string
	Failed bool
}

// GET /
func (rt *Router) handleHome(w http.ResponseWriter, r *http.Request) {
	data := homePage{pageData: rt.basePage(r, "title.home")}
	q, outcome, err := rt.deps.Quotes.Random(rt.translationContext(r))
	if err != nil {
		log.Printf("[%s] quote fetch failed: %v", chimw.GetReqID(r.Context()), err)
		data.Quote = utils.T(data.Lang, "quote.error")
		data.Author = utils.T(data.Lang, "quote.error.author")
		data.Failed = true
	} else {
		if outcome == services.OutcomeFallback {
			log.Printf("[%s] quote shown untranslated", chimw.GetReqID(r.Context()))
		}
		data.Quote, data.Author = q.Text, q.Author
	}
	rt.pages.render(w, "index.html", data)
}

type bodyPartOption struct {
	Value    string
	Selected bool
}

type exercisesPage struct {
	pageData
	BodyPart  string
	BodyParts []bodyPartOption
	Exercises []*services.Exercise
}

// GET /ejercicios?bodyPart=back
func (rt *Router) handleExercises(w http.ResponseWriter, r *http.Request) {
	bodyPart := strings.TrimSpace(r.URL.Query().Get("bodyPart"))
	if bodyPart == "" {
		bodyPart = "all"
	}
	data := exercisesPage{pageData: rt.basePage(r, "title.exercises"), BodyPart: bodyPart}
	for _, bp := range services.BodyParts {
		data.BodyParts = append(data.BodyParts, bodyPartOption{Value: bp, Selected: bp == bodyPart})
	}

	ctx := rt.translationContext(r)
	records, err := rt.deps.Exercises.List(ctx, bodyPart)
	if err != nil {
		log.Printf("[%s] exercise fetch failed (bodyPart=%s): %v", chimw.GetReqID(r.Context()), bodyPart, err)
		records = nil
	}
	if len(records) > 0 {
		rep := rt.deps.Exercises.Localize(ctx, records)
		for name, res := range map[string]services.BatchResult{"descriptions": rep.Descriptions, "instructions": rep.Instructions} {
			if res.Outcome == services.OutcomeFallback {
				log.Printf("[%s] %s shown untranslated: %v", chimw.GetReqID(r.Context()), name, res.Err)
			}
		}
	}
	data.Exercises = records
	rt.pages.render(w, "exercises.html", data)
}

type nutritionPage struct {
	pageData
	Food      string
	Searched  bool
	Nutrients []services.Nutrient
	FormToken string
	TokenName string
	Notice    string
}

// GET  /nutricion shows the form.
// POST /nutricion looks up alimento.
func (rt *Router) handleNutrition(w http.ResponseWriter, r *http.Request) {
	data := nutritionPage{pageData: rt.basePage(r, "title.nutrition"), TokenName: middleware.FormTokenField}
	switch {
	case r.Method == http.MethodPost && middleware.FormRejected(r.Context()):
		data.Food = strings.TrimSpace(r.PostFormValue("alimento"))
		data.Notice = utils.T(data.Lang, "form.invalid")
	case r.Method == http.MethodPost:
		data.Searched = true
		data.Food = strings.TrimSpace(r.PostFormValue("alimento"))
		if data.Food != "" {
			nutrients, err := rt.deps.Nutrition.Lookup(r.Context(), data.Food)
			if err != nil {
				log.Printf("[%s] nutrition lookup failed for %q: %v", chimw.GetReqID(r.Context()), data.Food, err)
				nutrients = nil
			}
			data.Nutrients = nutrients
		}
	}
	tok, err := rt.deps.Forms.Issue(nutritionForm)
	if err != nil {
		log.Printf("[%s] form token: %v", chimw.GetReqID(r.Context()), err)
	}
	data.FormToken = tok
	rt.pages.render(w, "nutrition.html", data)
}
