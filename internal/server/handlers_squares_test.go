package server

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"party-squares/internal/db"
)

func TestClaimAndReleaseFlow(t *testing.T) {
	app := newTestApp(t)
	ada := tokenFor(t, "ada@example.com")
	ben := tokenFor(t, "ben@example.com")

	resp := doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(3, 4))
	expectStatus(t, resp, http.StatusOK)
	square := decodeBody(t, resp)["square"].(map[string]any)
	if square["user_email"] != "ada@example.com" || square["user_name"] != "Ada" {
		t.Fatalf("unexpected square %#v", square)
	}

	expectError(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ben, claim(3, 4)), http.StatusConflict, "square already taken")

	resp = doRequest(t, app.ts, http.MethodGet, "/api/squares", ada, nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["user_square_count"] != float64(1) || body["max_squares_per_user"] != float64(5) || body["user_email"] != "ada@example.com" {
		t.Fatalf("unexpected board %#v", body)
	}
	if cell := gridCell(t, body, 3, 4); cell == nil || cell["user_email"] != "ada@example.com" {
		t.Fatalf("expected ada at (3,4), got %#v", cell)
	}
	if cell := gridCell(t, body, 4, 3); cell != nil {
		t.Fatalf("expected (4,3) empty, got %#v", cell)
	}

	expectError(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ben, release(3, 4)), http.StatusBadRequest, "cannot release this square")
	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, release(3, 4)), http.StatusOK)

	resp = doRequest(t, app.ts, http.MethodGet, "/api/squares", ben, nil)
	if cell := gridCell(t, decodeBody(t, resp), 3, 4); cell != nil {
		t.Fatalf("expected released cell, got %#v", cell)
	}
	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ben, claim(3, 4)), http.StatusOK)
}

func TestClaimRespectsMaxSquares(t *testing.T) {
	app := newTestApp(t)
	if err := app.store.SetMaxSquares(context.Background(), app.game.ID, 1); err != nil {
		t.Fatalf("set max: %v", err)
	}
	ada := tokenFor(t, "ada@example.com")
	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(0, 0)), http.StatusOK)
	expectError(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(0, 1)), http.StatusBadRequest, "maximum squares reached")

	resp := doRequest(t, app.ts, http.MethodGet, "/api/squares", ada, nil)
	if cell := gridCell(t, decodeBody(t, resp), 0, 1); cell != nil {
		t.Fatalf("expected rejected claim to leave (0,1) empty")
	}
}

func TestClaimValidation(t *testing.T) {
	app := newTestApp(t)
	ada := tokenFor(t, "ada@example.com")

	expectError(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(10, 0)), http.StatusBadRequest, "coordinates out of range")
	expectError(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(0, -1)), http.StatusBadRequest, "coordinates out of range")
	expectError(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, map[string]any{"row": 1, "col": 1}), http.StatusBadRequest, "invalid action")
	expectError(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, map[string]any{"action": "steal", "row": 1, "col": 1}), http.StatusBadRequest, "invalid action")
	expectError(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, map[string]any{"action": "claim"}), http.StatusBadRequest, "invalid coordinates")
}

func TestLockedGameRejectsBoardAndClaims(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "admin@example.com")
	ada := tokenFor(t, "ada@example.com")
	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(5, 5)), http.StatusOK)

	resp := postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"toggle_squares_locked"}})
	expectRedirect(t, resp, "/squares/admin", "squares_locked")

	resp = doRequest(t, app.ts, http.MethodGet, "/api/squares", ada, nil)
	expectStatus(t, resp, http.StatusLocked)
	body := decodeBody(t, resp)
	if body["locked"] != true || body["error"] != "game locked" {
		t.Fatalf("unexpected locked body %#v", body)
	}
	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(6, 6)), http.StatusLocked)
	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, release(5, 5)), http.StatusLocked)
	resp = doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, map[string]any{"action": "claim"})
	expectStatus(t, resp, http.StatusLocked)
	if body := decodeBody(t, resp); body["locked"] != true {
		t.Fatalf("expected locked flag for an incomplete claim, got %#v", body)
	}

	axis, err := app.store.AxisNumbers(context.Background(), app.game.ID)
	if err != nil || axis.Validate() != nil {
		t.Fatalf("expected valid axis after lock, got %v (%v)", axis, err)
	}

	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"toggle_squares_locked"}})
	expectRedirect(t, resp, "/squares/admin", "squares_unlocked")
	expectStatus(t, doRequest(t, app.ts, http.MethodGet, "/api/squares", ada, nil), http.StatusOK)
}

func TestNamedGameAccess(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	office, err := app.store.EnsureGame(ctx, "office", "Office Pool", 3)
	if err != nil {
		t.Fatalf("ensure game: %v", err)
	}
	ada := tokenFor(t, "ada@example.com")
	ben := tokenFor(t, "ben@example.com")

	expectError(t, doRequest(t, app.ts, http.MethodGet, "/api/squares/office", ada, nil), http.StatusForbidden, "no access to this game")
	expectError(t, doRequest(t, app.ts, http.MethodGet, "/api/squares/missing", ada, nil), http.StatusNotFound, "game not found")
	expectStatus(t, doRequest(t, app.ts, http.MethodGet, "/api/squares/office", tokenFor(t, "admin@example.com"), nil), http.StatusOK)

	if err := app.store.GrantAccess(ctx, office.ID, "ada@example.com", db.RolePlayer, "admin@example.com"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	resp := doRequest(t, app.ts, http.MethodGet, "/api/squares/office", ada, nil)
	expectStatus(t, resp, http.StatusOK)
	if body := decodeBody(t, resp); body["max_squares_per_user"] != float64(3) {
		t.Fatalf("expected office quota, got %#v", body["max_squares_per_user"])
	}
	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares/office", ada, claim(1, 1)), http.StatusOK)
	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(1, 1)), http.StatusOK)

	expectStatus(t, doRequest(t, app.ts, http.MethodGet, "/api/admin/squares/office", ada, nil), http.StatusNotFound)
	if err := app.store.GrantAccess(ctx, office.ID, "ben@example.com", db.RoleAdmin, "admin@example.com"); err != nil {
		t.Fatalf("grant admin: %v", err)
	}
	expectStatus(t, doRequest(t, app.ts, http.MethodGet, "/api/admin/squares/office", ben, nil), http.StatusOK)
	expectStatus(t, doRequest(t, app.ts, http.MethodGet, "/api/admin/squares", ben, nil), http.StatusNotFound)
}

func TestAdminProxyActions(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "admin@example.com")

	resp := doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "create_proxy", "proxy_name": "Grandma"})
	expectStatus(t, resp, http.StatusOK)
	first := decodeBody(t, resp)["proxy"].(map[string]any)
	resp = doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "create_proxy", "proxy_name": "Grandma"})
	second := decodeBody(t, resp)["proxy"].(map[string]any)
	if first["id"] == second["id"] {
		t.Fatalf("expected distinct proxies for the same name")
	}

	resp = doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "proxy_claim", "row": 1, "col": 1, "proxy_id": first["id"]})
	expectStatus(t, resp, http.StatusOK)
	square := decodeBody(t, resp)["square"].(map[string]any)
	if square["proxy_id"] != first["id"] || square["user_name"] != "Grandma" {
		t.Fatalf("unexpected proxy square %#v", square)
	}
	expectStatus(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "proxy_claim", "row": 1, "col": 2, "proxy_id": second["id"]}), http.StatusOK)
	expectError(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "proxy_claim", "row": 1, "col": 1, "proxy_id": second["id"]}), http.StatusConflict, "square already taken")

	resp = doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "proxy_claim", "row": 2, "col": 2, "proxy_name": "Uncle Bob"})
	expectError(t, resp, http.StatusBadRequest, "proxy is required")
	resp = doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "create_proxy", "proxy_name": "Uncle Bob"})
	expectStatus(t, resp, http.StatusOK)
	bob := decodeBody(t, resp)["proxy"].(map[string]any)
	expectStatus(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "proxy_claim", "row": 2, "col": 2, "proxy_id": bob["id"]}), http.StatusOK)

	resp = doRequest(t, app.ts, http.MethodGet, "/api/admin/squares", admin, nil)
	expectStatus(t, resp, http.StatusOK)
	board := decodeBody(t, resp)
	if proxies := board["proxies"].([]any); len(proxies) != 3 {
		t.Fatalf("expected 3 proxies, got %d", len(proxies))
	}
	if cell := gridCell(t, board, 1, 2); cell == nil || cell["proxy_id"] != second["id"] {
		t.Fatalf("expected second proxy at (1,2), got %#v", cell)
	}

	resp = doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "release_all_by_proxy", "proxy_id": first["id"]})
	expectStatus(t, resp, http.StatusOK)
	if body := decodeBody(t, resp); body["released_count"] != float64(1) {
		t.Fatalf("expected one released square, got %#v", body["released_count"])
	}
	expectError(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "proxy_release", "row": 1, "col": 1}), http.StatusBadRequest, "square not found")
	expectStatus(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "proxy_release", "row": 1, "col": 2}), http.StatusOK)

	expectError(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "release_all_by_proxy"}), http.StatusBadRequest, "proxy is required")
	expectError(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "proxy_claim", "row": 0, "col": 0, "proxy_id": "not-a-uuid"}), http.StatusNotFound, "proxy not found")
	expectError(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "shuffle"}), http.StatusBadRequest, "invalid action")
}

func TestProxyFromAnotherGameIsRejected(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	office, err := app.store.EnsureGame(ctx, "office", "Office Pool", 5)
	if err != nil {
		t.Fatalf("ensure game: %v", err)
	}
	proxy, err := app.store.CreateProxy(ctx, &office.ID, "Grandma", "admin@example.com")
	if err != nil {
		t.Fatalf("create proxy: %v", err)
	}
	admin := tokenFor(t, "admin@example.com")
	payload := map[string]any{"action": "proxy_claim", "row": 0, "col": 0, "proxy_id": proxy.PublicID.String()}
	expectError(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, payload), http.StatusNotFound, "proxy not found")
	expectStatus(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares/office", admin, payload), http.StatusOK)
}

func TestPredictionsAndResults(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "admin@example.com")
	ada := tokenFor(t, "ada@example.com")
	ben := tokenFor(t, "ben@example.com")

	resp := postForm(t, app.ts, "/api/predictions", ada, url.Values{"prediction_home": {"24"}})
	expectRedirect(t, resp, "/squares", "incomplete_prediction")
	resp = postForm(t, app.ts, "/api/predictions", ada, url.Values{"prediction_home": {"24"}, "prediction_away": {"lots"}})
	expectRedirect(t, resp, "/squares", "invalid_prediction")
	resp = postForm(t, app.ts, "/api/predictions", ada, url.Values{"prediction_home": {"24"}, "prediction_away": {"-3"}})
	expectRedirect(t, resp, "/squares", "invalid_prediction")

	resp = postForm(t, app.ts, "/api/predictions", ada, url.Values{"prediction_home": {"24"}, "prediction_away": {"17"}})
	expectRedirect(t, resp, "/squares", "prediction_saved")
	resp = postForm(t, app.ts, "/api/predictions", ben, url.Values{"prediction_home": {"21"}, "prediction_away": {"17"}})
	expectRedirect(t, resp, "/squares", "prediction_saved")

	resp = doRequest(t, app.ts, http.MethodGet, "/api/squares/results", ada, nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["axis"] != nil || len(body["predictions"].([]any)) != 0 {
		t.Fatalf("expected no axis or ranking before lock, got %#v", body)
	}

	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"set_final_score"}, "final_home_score": {"20"}, "final_away_score": {"17"}})
	expectRedirect(t, resp, "/squares/admin", "final_score_saved")
	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"set_score"}, "quarter": {"1"}, "home_score": {"7"}, "away_score": {"3"}})
	expectRedirect(t, resp, "/squares/admin", "score_saved")
	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"set_score"}, "quarter": {"5"}, "home_score": {"7"}})
	expectRedirect(t, resp, "/squares/admin", "invalid_quarter")
	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"toggle_squares_locked"}})
	expectRedirect(t, resp, "/squares/admin", "squares_locked")

	resp = postForm(t, app.ts, "/api/predictions", ada, url.Values{"prediction_home": {"30"}, "prediction_away": {"10"}})
	expectRedirect(t, resp, "/squares", "game_locked")
	resp = doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "create_proxy", "proxy_name": "Grandma"})
	expectStatus(t, resp, http.StatusOK)
	grandma := decodeBody(t, resp)["proxy"].(map[string]any)["id"].(string)
	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"proxy_prediction"}, "prediction_name": {"Grandma"}, "prediction_home": {"20"}, "prediction_away": {"16"}})
	expectRedirect(t, resp, "/squares/admin", "proxy_required")
	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"proxy_prediction"}, "proxy_id": {grandma}, "prediction_home": {"19"}, "prediction_away": {"16"}})
	expectRedirect(t, resp, "/squares/admin", "prediction_saved")
	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"proxy_prediction"}, "proxy_id": {grandma}, "prediction_home": {"20"}, "prediction_away": {"16"}})
	expectRedirect(t, resp, "/squares/admin", "prediction_saved")

	resp = doRequest(t, app.ts, http.MethodGet, "/api/squares/results", ada, nil)
	expectStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["axis"] == nil {
		t.Fatalf("expected axis numbers after lock")
	}
	final := body["final_score"].(map[string]any)
	if final["home"] != float64(20) || final["away"] != float64(17) {
		t.Fatalf("unexpected final score %#v", final)
	}

	quarters := body["quarters"].([]any)
	if len(quarters) != 4 {
		t.Fatalf("expected 4 quarters, got %d", len(quarters))
	}
	q1 := quarters[0].(map[string]any)
	if q1["home_last_digit"] != float64(7) || q1["away_last_digit"] != float64(3) || q1["row"] == nil || q1["col"] == nil {
		t.Fatalf("unexpected q1 %#v", q1)
	}
	if q2 := quarters[1].(map[string]any); q2["home_last_digit"] != nil || q2["row"] != nil {
		t.Fatalf("expected q2 undetermined, got %#v", q2)
	}

	predictions := body["predictions"].([]any)
	want := []struct {
		name   string
		rank   float64
		winner bool
	}{{"Ben", 1, true}, {"Grandma", 1, true}, {"Ada", 3, false}}
	if len(predictions) != len(want) {
		t.Fatalf("expected %d predictions, got %d", len(want), len(predictions))
	}
	for i, expected := range want {
		result := predictions[i].(map[string]any)
		prediction := result["prediction"].(map[string]any)
		if prediction["user_name"] != expected.name || result["rank"] != expected.rank || result["winner"] != expected.winner {
			t.Fatalf("position %d: expected %s rank %v winner %v, got %#v", i, expected.name, expected.rank, expected.winner, result)
		}
	}

	predictionID := predictions[2].(map[string]any)["prediction"].(map[string]any)["id"].(float64)
	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"delete_prediction"}, "prediction_id": {formatFloatID(predictionID)}})
	expectRedirect(t, resp, "/squares/admin", "prediction_deleted")
	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"delete_prediction"}, "prediction_id": {formatFloatID(predictionID)}})
	expectRedirect(t, resp, "/squares/admin", "prediction_not_found")
}

func TestNamedGamePredictionRedirect(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	office, err := app.store.EnsureGame(ctx, "office", "Office Pool", 5)
	if err != nil {
		t.Fatalf("ensure game: %v", err)
	}
	if err := app.store.GrantAccess(ctx, office.ID, "ada@example.com", db.RoleAdmin, "admin@example.com"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	ada := tokenFor(t, "ada@example.com")
	resp := postForm(t, app.ts, "/api/predictions/office", ada, url.Values{"prediction_home": {"10"}, "prediction_away": {"13"}})
	expectRedirect(t, resp, "/squares/office", "prediction_saved")

	resp = postForm(t, app.ts, "/api/admin/squares/office", ada, url.Values{"action": {"set_max_squares"}, "max_squares": {"8"}})
	expectRedirect(t, resp, "/squares/office/admin", "max_squares_saved")
	resp = postForm(t, app.ts, "/api/admin/squares/office", ada, url.Values{"action": {"set_max_squares"}, "max_squares": {"101"}})
	expectRedirect(t, resp, "/squares/office/admin", "invalid_max_squares")
	game, err := app.store.GameBySlug(ctx, "office")
	if err != nil || game.MaxSquaresPerUser != 8 {
		t.Fatalf("expected max 8, got %d (%v)", game.MaxSquaresPerUser, err)
	}

	resp = postForm(t, app.ts, "/api/admin/squares", ada, url.Values{"action": {"set_max_squares"}, "max_squares": {"8"}})
	expectStatus(t, resp, http.StatusNotFound)
}

func TestResetGameClearsState(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "admin@example.com")
	ada := tokenFor(t, "ada@example.com")

	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(4, 4)), http.StatusOK)
	expectRedirect(t, postForm(t, app.ts, "/api/predictions", ada, url.Values{"prediction_home": {"3"}, "prediction_away": {"0"}}), "/squares", "prediction_saved")
	expectRedirect(t, postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"set_score"}, "quarter": {"2"}, "home_score": {"14"}, "away_score": {"10"}}), "/squares/admin", "score_saved")
	expectRedirect(t, postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"toggle_squares_locked"}}), "/squares/admin", "squares_locked")

	expectRedirect(t, postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"reset_game"}}), "/squares/admin", "game_reset")

	resp := doRequest(t, app.ts, http.MethodGet, "/api/squares", ada, nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["user_square_count"] != float64(0) || gridCell(t, body, 4, 4) != nil {
		t.Fatalf("expected empty grid after reset, got %#v", body)
	}
	predictions, err := app.store.ListPredictions(context.Background(), app.game.ID)
	if err != nil || len(predictions) != 0 {
		t.Fatalf("expected predictions cleared, got %d (%v)", len(predictions), err)
	}
	scores, err := app.store.QuarterScores(context.Background())
	if err != nil {
		t.Fatalf("quarter scores: %v", err)
	}
	for _, score := range scores {
		if score.Home != nil || score.Away != nil {
			t.Fatalf("expected scores cleared, got %#v", score)
		}
	}
}

func TestClearActions(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "admin@example.com")
	ada := tokenFor(t, "ada@example.com")
	expectStatus(t, doRequest(t, app.ts, http.MethodPost, "/api/squares", ada, claim(0, 9)), http.StatusOK)

	expectRedirect(t, postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"clear_all_squares"}}), "/squares/admin", "squares_cleared")
	squares, err := app.store.ListSquares(context.Background(), app.game.ID)
	if err != nil || len(squares) != 0 {
		t.Fatalf("expected squares cleared, got %d (%v)", len(squares), err)
	}

	expectRedirect(t, postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"set_score"}, "quarter": {"3"}, "home_score": {"1"}, "away_score": {"2"}}), "/squares/admin", "score_saved")
	expectRedirect(t, postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"clear_all_scores"}}), "/squares/admin", "scores_cleared")
	expectRedirect(t, postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"dance"}}), "/squares/admin", "unknown_action")
}

func TestAdminFormReturnTo(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "admin@example.com")

	resp := postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"clear_all_scores"}, "return_to": {"//evil.example/steal"}})
	expectRedirect(t, resp, "/squares/admin", "scores_cleared")

	resp = postForm(t, app.ts, "/api/admin/squares", admin, url.Values{"action": {"clear_all_scores"}, "return_to": {"/squares/admin?tab=scores"}})
	expectRedirect(t, resp, "/squares/admin", "scores_cleared")
	location, _ := url.Parse(resp.Header.Get("Location"))
	if location.Query().Get("tab") != "scores" {
		t.Fatalf("expected return_to query to survive, got %s", location)
	}
}

func TestProxyClaimsCountAgainstOneQuota(t *testing.T) {
	app := newTestApp(t)
	admin := tokenFor(t, "admin@example.com")

	resp := doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, map[string]any{"action": "create_proxy", "proxy_name": "Dave"})
	expectStatus(t, resp, http.StatusOK)
	dave := decodeBody(t, resp)["proxy"].(map[string]any)["id"]

	for col := 0; col < 5; col++ {
		payload := map[string]any{"action": "proxy_claim", "row": 0, "col": col, "proxy_id": dave}
		expectStatus(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, payload), http.StatusOK)
	}
	payload := map[string]any{"action": "proxy_claim", "row": 0, "col": 5, "proxy_id": dave}
	expectError(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, payload), http.StatusBadRequest, "maximum squares reached")
	payload = map[string]any{"action": "proxy_claim", "row": 0, "col": 6, "proxy_name": "Dave"}
	expectError(t, doRequest(t, app.ts, http.MethodPut, "/api/admin/squares", admin, payload), http.StatusBadRequest, "proxy is required")

	proxies, err := app.store.ListProxies(context.Background(), &app.game.ID)
	if err != nil || len(proxies) != 1 {
		t.Fatalf("expected a single proxy, got %d (%v)", len(proxies), err)
	}
}
