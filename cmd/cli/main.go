package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Interactive phone-line simulator against a running backend. Talks to the
// same HTTP surface a telephony gateway would.
func main() {
	baseURL := os.Getenv("CLINIC_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000/api"
	}

	color.Cyan("📞 Horizon Medical Clinic — call simulator")
	color.Cyan("Type a message and press Enter. Commands: /state, /history, /hangup, /quit\n")

	var sessionID string
	scanner := bufio.NewScanner(os.Stdin)

	for {
		color.New(color.FgHiWhite).Print("caller> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit":
			return
		case "/state":
			if sessionID == "" {
				color.Yellow("no active session yet")
				continue
			}
			getJSON(baseURL+"/conversation/v1/session/"+sessionID, nil)
			continue
		case "/history":
			if sessionID == "" {
				color.Yellow("no active session yet")
				continue
			}
			getJSON(baseURL+"/conversation/v1/session/"+sessionID+"/history", nil)
			continue
		case "/hangup":
			if sessionID == "" {
				color.Yellow("no active session yet")
				continue
			}
			req, _ := http.NewRequest(http.MethodDelete, baseURL+"/conversation/v1/session/"+sessionID, nil)
			if _, err := http.DefaultClient.Do(req); err != nil {
				color.Red("hangup failed: %v", err)
				continue
			}
			color.Yellow("call ended, session %s discarded", sessionID)
			sessionID = ""
			continue
		}

		payload, _ := json.Marshal(map[string]string{
			"session_id": sessionID,
			"message":    line,
		})
		resp, err := http.Post(baseURL+"/conversation/v1/message", "application/json", bytes.NewBuffer(payload))
		if err != nil {
			color.Red("request failed: %v", err)
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			color.Red("HTTP %s: %s", resp.Status, string(body))
			continue
		}

		var envelope struct {
			Data struct {
				SessionId         string   `json:"session_id"`
				Reply             string   `json:"reply"`
				VerificationState string   `json:"verification_state"`
				ToolsUsed         []string `json:"tools_used"`
				ErrorCode         string   `json:"error_code"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			color.Red("bad response: %v", err)
			continue
		}

		sessionID = envelope.Data.SessionId
		color.Green("clinic> %s", envelope.Data.Reply)
		if len(envelope.Data.ToolsUsed) > 0 {
			color.New(color.FgHiBlack).Printf("        [tools: %s | state: %s]\n",
				strings.Join(envelope.Data.ToolsUsed, ", "), envelope.Data.VerificationState)
		}
		if envelope.Data.ErrorCode != "" {
			color.Yellow("        [%s]", envelope.Data.ErrorCode)
		}
	}
}

func getJSON(url string, headers map[string]string) {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		color.Red("request failed: %v", err)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
