package bjxgj

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// resty only unmarshals SetResult targets when the response declares a
// JSON content type
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{
		APIBaseURL:     srv.URL,
		ServiceBaseURL: srv.URL,
	})
}

func TestCheckLoginStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/app/auth/checkLoginStatusWithToken", r.URL.Path)
		require.Equal(t, "1/3.0.8/734", r.Header.Get("app-info"))

		var body struct {
			Random   string `json:"random"`
			Channel  string `json:"channel"`
			Platform string `json:"platform"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "nonce123", body.Random)
		require.Equal(t, "app_web", body.Channel)
		require.Equal(t, "app", body.Platform)

		writeJSON(w, map[string]any{
			"code": 1,
			"msg":  "",
			"data": "jwt-token-value",
		})
	}))

	status, err := client.CheckLoginStatus(context.Background(), "nonce123")
	require.NoError(t, err)
	require.Equal(t, 1, status.Code)
	require.Equal(t, "jwt-token-value", status.Data)
}

func TestRecordsPageQuery(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/info/getParent", r.URL.Path)
		require.Equal(t, "session-token", r.Header.Get("authorization"))

		q := r.URL.Query()
		require.Equal(t, "m1:m2", q.Get("members"))
		require.Equal(t, "-1", q.Get("type"))
		require.Equal(t, "-1", q.Get("date"))
		require.Equal(t, "3", q.Get("page"))
		require.Equal(t, "20", q.Get("size"))
		require.Equal(t, "false", q.Get("isRecent"))

		writeJSON(w, map[string]any{
			"data": []map[string]any{
				{"_id": "r1", "type": 4, "cls": "c1", "title": "期中考试", "score": "s1"},
			},
		})
	}))

	records, err := client.RecordsPage(context.Background(), "session-token", []string{"m1", "m2"}, 3, 20)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "r1", records[0].ID)
	require.Equal(t, TypeScoreSheet, records[0].Type)
	require.Equal(t, "期中考试", records[0].Title)
}

func TestStudentScoreUsesImprint(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getStudentScoreById", r.URL.Path)
		require.Equal(t, "creator-openid", r.Header.Get("imprint"))
		require.Empty(t, r.Header.Get("authorization"))

		var body struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "sheet1", body.ID)
		require.Equal(t, "张三", body.Name)

		writeJSON(w, map[string]any{
			"data": map[string]any{
				"studentScore": map[string]any{
					"score_detail": []map[string]string{
						{"subject": "语文", "score": "95"},
						{"subject": "数学", "score": "88"},
					},
				},
			},
		})
	}))

	scores, err := client.StudentScore(context.Background(), "creator-openid", "张三", "sheet1")
	require.NoError(t, err)
	require.Equal(t, []ScoreEntry{
		{Subject: "语文", Score: "95"},
		{Subject: "数学", Score: "88"},
	}, scores)
}

func TestStudentScoreErrorStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.StudentScore(context.Background(), "imprint", "李四", "sheet1")
	require.Error(t, err)
}
