package garage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/servicetrack/backend/internal/models"
)

const nhtsaBaseURL = "https://vpic.nhtsa.dot.gov/api/vehicles"

// VINData is the subset of decoder output used to enrich a vehicle.
type VINData struct {
	Year   *int
	Make   *string
	Model  *string
	Trim   *string
	Engine *string
}

// VINDecoder resolves a VIN to vehicle data. Implementations are
// best-effort; callers treat every error as "no enrichment available".
type VINDecoder interface {
	Decode(ctx context.Context, vin string) (*VINData, error)
}

// VINClient calls the NHTSA vPIC decoder over HTTP.
type VINClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewVINClient(baseURL string) *VINClient {
	if baseURL == "" {
		baseURL = nhtsaBaseURL
	}
	return &VINClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Decode calls GET /DecodeVinValuesExtended/{vin}. A VIN the service has
// no data for yields (nil, nil).
func (c *VINClient) Decode(ctx context.Context, vin string) (*VINData, error) {
	endpoint := fmt.Sprintf("%s/DecodeVinValuesExtended/%s?format=json", c.baseURL, url.PathEscape(vin))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vin decoder returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Results []map[string]string `json:"Results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("vin decoder: decode: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}

	data := payload.Results[0]
	out := &VINData{
		Make:  models.TrimToNull(data["Make"]),
		Model: models.TrimToNull(data["Model"]),
		Trim:  models.TrimToNull(data["Trim"]),
	}
	if year, err := strconv.Atoi(data["ModelYear"]); err == nil {
		out.Year = &year
	}
	if engine := models.TrimToNull(data["EngineModel"]); engine != nil {
		out.Engine = engine
	} else {
		out.Engine = models.TrimToNull(data["EngineConfiguration"])
	}
	return out, nil
}
