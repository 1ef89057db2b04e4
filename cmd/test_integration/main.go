package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("RAGSEARCH_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	token := os.Getenv("AUTH_API_KEY")

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Health check...")
	resp, err := http.Get(baseURL + "/healthz")
	if err != nil || resp.StatusCode != http.StatusOK {
		fmt.Printf("FAILED: Health check: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	fmt.Println("PASSED: Health check")

	fmt.Println("2. Rejecting a bad token...")
	env, ok := sendRequest(baseURL, "wrong-"+token, map[string]any{"query": "iphone release date"})
	if !ok || env["error"] != "Access Denied" {
		fmt.Printf("FAILED: Bad token accepted: %v\n", env)
		os.Exit(1)
	}
	fmt.Println("PASSED: Bad token rejected")

	fmt.Println("3. Rag search with every stage on...")
	payload := map[string]any{
		"query":            "iphone 15 release date",
		"locale":           "en",
		"search_n":         10,
		"search_provider":  "google",
		"is_reranking":     true,
		"is_detail":        true,
		"detail_top_k":     6,
		"detail_min_score": 0.70,
		"is_filter":        true,
		"filter_min_score": 0.80,
		"filter_top_k":     6,
	}
	env, ok = sendRequest(baseURL, token, payload)
	if !ok {
		os.Exit(1)
	}
	if msg, failed := env["error"]; failed {
		fmt.Printf("FAILED: Rag search: %v\n", msg)
		os.Exit(1)
	}

	pretty, _ := json.MarshalIndent(env, "", "  ")
	fmt.Println(string(pretty))
	fmt.Println("PASSED: Rag search")
}

func sendRequest(baseURL, token string, payload any) (map[string]any, bool) {
	jsonBytes, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, baseURL+"/rag-search", bytes.NewBuffer(jsonBytes))
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}

	var env map[string]any
	if err := json.Unmarshal(respBody, &env); err != nil {
		fmt.Printf("Invalid response body: %s\n", string(respBody))
		return nil, false
	}
	return env, true
}
