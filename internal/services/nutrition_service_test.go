package services

import (
	"context"
	"testing"
)

const edamamSample = `{
  "uri": "http://www.edamam.com/ontologies/edamam.owl#recipe_1",
  "ingredients": [{
    "text": "1 apple",
    "parsed": [{
      "quantity": 1,
      "food": "apple",
      "nutrients": {
        "ENERC_KCAL": {"label": "Energy", "quantity": 94.64, "unit": "kcal"},
        "CHOCDF": {"label": "Carbs", "quantity": 25.13, "unit": "g"}
      }
    }]
  }]
}`

func TestNutritionLookupURL(t *testing.T) {
	svc := NewNutritionService(nil, NutritionConfig{AppID: "id", AppKey: "key"})
	want := "https://api.edamam.com/api/nutrition-data?app_id=id&app_key=key&ingr=1%20mac%20%26%20cheese"
	if got := svc.LookupURL("mac & cheese"); got != want {
		t.Fatalf("LookupURL = %s, want %s", got, want)
	}
}

func TestNutritionLookupFirstParsedIngredient(t *testing.T) {
	client := &stubHTTPClient{resp: jsonResponse(200, edamamSample)}
	out, err := NewNutritionService(client, NutritionConfig{}).Lookup(context.Background(), "  apple ")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 nutrients, got %d", len(out))
	}
	if out[0].Key != "CHOCDF" || out[1].Key != "ENERC_KCAL" || out[1].Unit != "kcal" {
		t.Fatalf("unexpected nutrients %+v", out)
	}
	if client.req.URL.Query().Get("ingr") != "1 apple" {
		t.Fatalf("unexpected ingr %q", client.req.URL.Query().Get("ingr"))
	}
}

func TestNutritionLookupUnparsedFood(t *testing.T) {
	client := &stubHTTPClient{resp: jsonResponse(200, `{"ingredients":[{"text":"1 zzz"}]}`)}
	out, err := NewNutritionService(client, NutritionConfig{}).Lookup(context.Background(), "zzz")
	if err != nil || out != nil {
		t.Fatalf("expected no nutrients and no error, got %v %v", out, err)
	}
}

func TestNutritionLookupRequiresFood(t *testing.T) {
	_, err := NewNutritionService(&stubHTTPClient{}, NutritionConfig{}).Lookup(context.Background(), "   ")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid error, got %v", err)
	}
}

func TestNutritionLookupUpstreamFailure(t *testing.T) {
	client := &stubHTTPClient{resp: jsonResponse(401, `{"error":"unauthorized"}`)}
	if _, err := NewNutritionService(client, NutritionConfig{}).Lookup(context.Background(), "apple"); err == nil {
		t.Fatalf("expected error")
	}
}
