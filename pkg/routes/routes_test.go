package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/routes"
)

func noop(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func testGroups() []routes.Group {
	return []routes.Group{
		{
			Prefix: "/requests",
			Tags:   []string{"Requests"},
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: noop, OpenAPI: &openapi.Operation{Summary: "List"}},
				{Method: "GET", Pattern: "/{id}", Handler: noop, OpenAPI: &openapi.Operation{Summary: "Find"}},
				{Method: "POST", Pattern: "", Handler: noop},
			},
			Children: []routes.Group{
				{
					Prefix: "/{id}/checks",
					Routes: []routes.Route{
						{Method: "GET", Pattern: "", Handler: noop, OpenAPI: &openapi.Operation{Summary: "Checks", Tags: []string{"Checks"}}},
					},
				},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, testGroups()...)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/requests", http.StatusNoContent},
		{"GET", "/requests/abc", http.StatusNoContent},
		{"POST", "/requests", http.StatusNoContent},
		{"GET", "/requests/abc/checks", http.StatusNoContent},
		{"DELETE", "/requests/abc", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("test", "1.0.0")
	routes.Describe(spec, "/api", testGroups()...)

	list := spec.Paths["/api/requests"]
	if list == nil || list.Get == nil {
		t.Fatal("missing GET /api/requests")
	}
	if list.Post != nil {
		t.Error("undocumented route should not be described")
	}
	if list.Get.Tags[0] != "Requests" {
		t.Errorf("group tag not applied: %v", list.Get.Tags)
	}

	checks := spec.Paths["/api/requests/{id}/checks"]
	if checks == nil || checks.Get == nil {
		t.Fatal("missing nested checks path")
	}
	if checks.Get.Tags[0] != "Checks" {
		t.Errorf("operation tags should win: %v", checks.Get.Tags)
	}
}
