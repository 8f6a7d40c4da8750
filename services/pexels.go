package services

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const pexelsSearchURL = "https://api.pexels.com/v1/search"

// PexelsClient searches Pexels for a cover photo. Every failure path returns
// "" — a missing cover image is a valid outcome, never an error.
type PexelsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{
		apiKey:     apiKey,
		baseURL:    pexelsSearchURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log.With().Str("service", "pexels").Logger(),
	}
}

type pexelsResponse struct {
	Photos []struct {
		Src struct {
			Original string `json:"original"`
			Large2x  string `json:"large2x"`
			Large    string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

func (c *PexelsClient) SearchCoverImage(title string) string {
	if c.apiKey == "" {
		return ""
	}

	query := url.Values{}
	query.Set("query", title)
	query.Set("per_page", "1")

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("building pexels request failed")
		return ""
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("title", title).Msg("pexels search failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("title", title).Msg("pexels returned non-OK status")
		return ""
	}

	var body pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Error().Err(err).Msg("decoding pexels response failed")
		return ""
	}
	if len(body.Photos) == 0 {
		return ""
	}

	src := body.Photos[0].Src
	switch {
	case src.Large2x != "":
		return src.Large2x
	case src.Large != "":
		return src.Large
	default:
		return src.Original
	}
}
