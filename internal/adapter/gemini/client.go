package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/usecase/riskanalysis"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Gemini generateContent REST endpoint to produce project
// risk reports. It implements riskanalysis.Analyzer.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Gemini client. An empty apiKey yields a client
// that reports itself as not configured instead of failing at call time.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type reportPayload struct {
	RiskScore int      `json:"riskScore"`
	Summary   string   `json:"summary"`
	Pros      []string `json:"pros"`
	Cons      []string `json:"cons"`
}

// Analyze asks the model for a structured risk assessment of the project.
// Logic:
//  1. Refuse early when no API key is configured.
//  2. POST the prompt to models/<model>:generateContent.
//  3. Extract the first candidate's text, stripping markdown code fences
//     the model tends to wrap JSON in.
//  4. Decode the JSON payload into a report.
func (c *Client) Analyze(ctx context.Context, project domain.Project) (*riskanalysis.Report, error) {
	if c.apiKey == "" {
		return nil, riskanalysis.ErrNotConfigured
	}

	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(project)}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	text := stripCodeFences(genResp.Candidates[0].Content.Parts[0].Text)

	var payload reportPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse model output as JSON: %w", err)
	}

	return &riskanalysis.Report{
		RiskScore: payload.RiskScore,
		Summary:   payload.Summary,
		Pros:      payload.Pros,
		Cons:      payload.Cons,
	}, nil
}

func buildPrompt(project domain.Project) string {
	var b strings.Builder
	b.WriteString("You are a financial risk analyst for a Nigerian investment platform. ")
	b.WriteString("Analyze the following project and respond with JSON only, using the shape ")
	b.WriteString(`{"riskScore": <1-10 integer, 10 riskiest>, "summary": <string>, "pros": [<string>], "cons": [<string>]}.`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Title: %s\n", project.Title)
	fmt.Fprintf(&b, "Sector: %s\n", project.Sector)
	fmt.Fprintf(&b, "Stated risk level: %s\n", project.RiskLevel)
	fmt.Fprintf(&b, "Target: ₦%s, raised so far: ₦%s\n", project.TargetAmount.StringFixed(0), project.RaisedAmount.StringFixed(0))
	fmt.Fprintf(&b, "Projected ROI: %s%% over %d months\n", project.ROI.String(), project.DurationMonths)
	fmt.Fprintf(&b, "Details: %s\n", project.FullDetails)
	return b.String()
}

// stripCodeFences removes a surrounding ```json ... ``` block if present
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
