package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// End-to-end check against a running enviroops-api: mint a token, create an
// inspection, flag it, and verify the audit trail recorded both mutations.
func main() {
	base := os.Getenv("ENVIROOPS_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 5 * time.Second}

	var tok struct {
		Token string `json:"token"`
	}
	mustCall(client, http.MethodPost, base+"/auth/token", "", map[string]any{
		"user":        "smoke",
		"displayName": "Smoke Test",
		"role":        "Director",
	}, &tok)
	if tok.Token == "" {
		log.Fatal("no token issued")
	}

	var before struct {
		AuditLog []json.RawMessage `json:"auditLog"`
	}
	mustCall(client, http.MethodGet, base+"/audit-trail", tok.Token, nil, &before)

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	mustCall(client, http.MethodPost, base+"/site-inspections", tok.Token, map[string]any{
		"siteAddress":    fmt.Sprintf("smoke site %d", time.Now().UnixNano()),
		"inspectionType": "Phase I",
		"inspectorId":    "smoke",
	}, &created)
	if created.ID == "" || created.Status != "Scheduled" {
		log.Fatalf("unexpected create result: id=%q status=%q", created.ID, created.Status)
	}

	var updated struct {
		Status string `json:"status"`
	}
	mustCall(client, http.MethodPatch, base+"/site-inspections/"+created.ID+"/status",
		tok.Token, map[string]any{"status": "Flagged"}, &updated)
	if updated.Status != "Flagged" {
		log.Fatalf("unexpected status after update: %q", updated.Status)
	}

	var after struct {
		AuditLog []json.RawMessage `json:"auditLog"`
	}
	mustCall(client, http.MethodGet, base+"/audit-trail", tok.Token, nil, &after)

	if got, want := len(after.AuditLog)-len(before.AuditLog), 2; got != want {
		log.Fatalf("audit trail grew by %d entries, want %d", got, want)
	}

	fmt.Printf("✅ enviroops-api smoke test passed: inspection=%s\n", created.ID)
}

func mustCall(client *http.Client, method, url, token string, body any, out any) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			log.Fatalf("marshal %s %s: %v", method, url, err)
		}
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("request %s %s: %v", method, url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("%s %s: status %d", method, url, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
}
