// Command smoke walks a running viewer through a full view lifecycle: open,
// switch, select, print, export, download and close. It exits non-zero when
// a critical step fails.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type view struct {
	ID         string `json:"id"`
	ViewType   string `json:"viewType"`
	SelectedID string `json:"selectedId"`
	Options    []struct {
		Value string `json:"value"`
	} `json:"options"`
}

type exportResult struct {
	URL string `json:"url"`
}

type step struct {
	Name     string
	Critical bool
	Status   int
	Duration time.Duration
	Err      error
}

type runner struct {
	client *http.Client
	base   string
	token  string
	steps  []step
}

func main() {
	var (
		base          string
		prefix        string
		timetablePath string
		timetableID   string
		token         string
		timeout       time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "Viewer base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API prefix")
	flag.StringVar(&timetablePath, "timetable", "", "Path to a timetable JSON payload")
	flag.StringVar(&timetableID, "timetable-id", "", "Stored timetable id, used when -timetable is empty")
	flag.StringVar(&token, "token", os.Getenv("VIEWER_TOKEN"), "Bearer token when auth is enabled")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	openBody, err := openPayload(timetablePath, timetableID)
	if err != nil {
		log.Fatalf("failed to build open payload: %v", err)
	}

	r := &runner{
		client: &http.Client{Timeout: timeout},
		base:   strings.TrimRight(base, "/") + prefix,
		token:  token,
	}

	var v view
	if !r.expectJSON("open view", true, http.MethodPost, "/views", openBody, http.StatusCreated, &v) {
		r.report()
		os.Exit(1)
	}
	viewPath := "/views/" + v.ID

	r.expectJSON("switch to faculty", true, http.MethodPut, viewPath+"/view-type", map[string]string{"viewType": "faculty"}, http.StatusOK, &v)
	if len(v.Options) > 1 {
		r.expectJSON("select second faculty member", false, http.MethodPut, viewPath+"/selection", map[string]string{"id": v.Options[1].Value}, http.StatusOK, &v)
	}
	r.expectJSON("select unknown id", false, http.MethodPut, viewPath+"/selection", map[string]string{"id": "smoke-unknown"}, http.StatusOK, &v)
	r.expectJSON("switch back to classes", true, http.MethodPut, viewPath+"/view-type", map[string]string{"viewType": "classes"}, http.StatusOK, &v)
	r.expectStatus("print", true, http.MethodGet, viewPath+"/print", nil, http.StatusOK)

	for _, format := range []string{"csv", "xlsx", "pdf"} {
		var result exportResult
		if r.expectJSON("export "+format, true, http.MethodPost, viewPath+"/exports", map[string]string{"format": format}, http.StatusCreated, &result) {
			r.expectStatus("download "+format, false, http.MethodGet, strings.TrimPrefix(result.URL, prefix), nil, http.StatusOK)
		}
	}

	r.expectStatus("close view", true, http.MethodDelete, viewPath, nil, http.StatusNoContent)
	r.expectStatus("closed view is gone", false, http.MethodGet, viewPath, nil, http.StatusNotFound)

	if failed := r.report(); failed > 0 {
		os.Exit(1)
	}
}

func openPayload(path, timetableID string) (map[string]interface{}, error) {
	if path == "" {
		if timetableID == "" {
			return nil, fmt.Errorf("either -timetable or -timetable-id is required")
		}
		return map[string]interface{}{"timetableId": timetableID, "backUrl": "/smoke"}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var timetable json.RawMessage
	if err := json.Unmarshal(data, &timetable); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return map[string]interface{}{"timetable": timetable, "backUrl": "/smoke"}, nil
}

// expectJSON runs a step expecting a JSON envelope and decodes its data into dest.
func (r *runner) expectJSON(name string, critical bool, method, path string, body interface{}, want int, dest interface{}) bool {
	resp, s := r.do(name, critical, method, path, body, want)
	if resp == nil {
		return false
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		s.Err = fmt.Errorf("decode envelope: %w", err)
	} else if env.Error != nil && s.Err == nil {
		s.Err = fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	} else if s.Err == nil && dest != nil {
		s.Err = json.Unmarshal(env.Data, dest)
	}
	r.steps = append(r.steps, *s)
	return s.Err == nil
}

// expectStatus runs a step that only checks the status and drains the body.
func (r *runner) expectStatus(name string, critical bool, method, path string, body interface{}, want int) bool {
	resp, s := r.do(name, critical, method, path, body, want)
	if resp != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	r.steps = append(r.steps, *s)
	return s.Err == nil
}

func (r *runner) do(name string, critical bool, method, path string, body interface{}, want int) (*http.Response, *step) {
	s := &step{Name: name, Critical: critical}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			s.Err = err
			return nil, s
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, r.base+path, reader)
	if err != nil {
		s.Err = err
		return nil, s
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	s.Duration = time.Since(start)
	if err != nil {
		s.Err = err
		return nil, s
	}
	s.Status = resp.StatusCode
	if resp.StatusCode != want {
		s.Err = fmt.Errorf("expected status %d", want)
	}
	return resp, s
}

func (r *runner) report() int {
	failed := 0
	fmt.Printf("%-32s %-8s %-8s %-10s %s\n", "STEP", "STATUS", "CRIT", "DURATION", "RESULT")
	for _, s := range r.steps {
		result := "ok"
		if s.Err != nil {
			result = s.Err.Error()
			if s.Critical {
				failed++
			}
		}
		fmt.Printf("%-32s %-8d %-8t %-10s %s\n", s.Name, s.Status, s.Critical, s.Duration.Round(time.Millisecond), result)
	}
	fmt.Printf("Critical failures: %d\n", failed)
	return failed
}
