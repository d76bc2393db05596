// Package uploader publishes the generated deadline feed to a GitHub repo so
// it can be served over raw.githubusercontent.com as a calendar subscription.
package uploader

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type githubUploadRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

var client = &http.Client{Timeout: 30 * time.Second}

// UploadToGitHub puts the feed file at repo/path via the contents API,
// replacing the previous revision when one exists.
func UploadToGitHub(token, repo, path, filename string) error {
	fileContent, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading feed file: %v", err)
	}

	uploadURL := fmt.Sprintf("https://api.github.com/repos/%s/contents/%s", repo, path)
	body := githubUploadRequest{
		Message: "Update deadlines.ics",
		Content: base64.StdEncoding.EncodeToString(fileContent),
		SHA:     currentSHA(token, uploadURL),
	}
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %v", err)
	}

	req, err := http.NewRequest("PUT", uploadURL, bytes.NewBuffer(bodyJSON))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("error uploading to GitHub, status code: %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// currentSHA fetches the blob SHA of the existing file. The contents API
// rejects an update without it; empty means the file does not exist yet.
func currentSHA(token, uploadURL string) string {
	req, err := http.NewRequest("GET", uploadURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var existing struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&existing); err != nil {
		return ""
	}
	return existing.SHA
}
