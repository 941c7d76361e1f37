// Package nhtsa implements sources.Source on top of the NHTSA vPIC vehicles API.
package nhtsa

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/carmap/internal/transport"
	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/sources"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// SourceName identifies vPIC in logs and errors.
const SourceName = "vpic"

// Client queries the vPIC API.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another vPIC deployment.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTransport sets the HTTP transport client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// New creates a vPIC client.
func New(opts ...Option) *Client {
	c := &Client{baseURL: constants.VPICBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = transport.New(transport.WithSource(SourceName))
	}
	return c
}

var _ sources.Source = (*Client)(nil)

// Name returns the source name.
func (c *Client) Name() string {
	return SourceName
}

// envelope is the wrapper vPIC puts around every result list.
type envelope[T any] struct {
	Count   int    `json:"Count"`
	Message string `json:"Message"`
	Results []T    `json:"Results"`
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("format", "json")
	endpoint := c.baseURL + path + "?" + query.Encode()

	var env envelope[T]
	if err := c.transport.GetJSON(ctx, endpoint, &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

type rawMakeForType struct {
	MakeID   int    `json:"MakeId"`
	MakeName string `json:"MakeName"`
}

// ListMakes returns every make listed for the car, truck and mpv vehicle
// types, deduplicated by make id in first-seen order.
func (c *Client) ListMakes(ctx context.Context) ([]sources.MakeRecord, error) {
	seen := make(map[int]bool)
	var makes []sources.MakeRecord
	for _, vt := range vehicles.VehicleTypes {
		results, err := get[rawMakeForType](ctx, c, "/GetMakesForVehicleType/"+vt.String(), nil)
		if err != nil {
			return nil, errors.WrapResource("list", "makes", vt.String(), err)
		}
		for _, r := range results {
			if seen[r.MakeID] {
				continue
			}
			seen[r.MakeID] = true
			makes = append(makes, sources.MakeRecord{ID: r.MakeID, Name: strings.TrimSpace(r.MakeName)})
		}
	}
	return makes, nil
}

type rawModel struct {
	ModelID   int    `json:"Model_ID"`
	ModelName string `json:"Model_Name"`
}

// ListModels returns the make's models from the car, truck and mpv listings.
// Each record carries the type of the listing it came from.
func (c *Client) ListModels(ctx context.Context, makeID int) ([]sources.ModelRecord, error) {
	var models []sources.ModelRecord
	for _, vt := range vehicles.VehicleTypes {
		path := "/GetModelsForMakeIdYear/makeId/" + strconv.Itoa(makeID) + "/vehicleType/" + vt.String()
		results, err := get[rawModel](ctx, c, path, nil)
		if err != nil {
			return nil, errors.WrapResource("list", "models", strconv.Itoa(makeID), err)
		}
		for _, r := range results {
			models = append(models, sources.ModelRecord{
				ID:          r.ModelID,
				Name:        strings.TrimSpace(r.ModelName),
				VehicleType: vt.String(),
			})
		}
	}
	return models, nil
}

// ModelsPresent returns the ids of the make's models listed for a model year.
func (c *Client) ModelsPresent(ctx context.Context, makeID, year int) ([]int, error) {
	path := "/getmodelsformakeidyear/makeId/" + strconv.Itoa(makeID) + "/modelyear/" + strconv.Itoa(year)
	results, err := get[rawModel](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ModelID)
	}
	return ids, nil
}

type rawVehicleType struct {
	VehicleTypeID   int    `json:"VehicleTypeId"`
	VehicleTypeName string `json:"VehicleTypeName"`
}

// VehicleTypes returns the vehicle types a make produces.
func (c *Client) VehicleTypes(ctx context.Context, makeID int) ([]sources.VehicleTypeRecord, error) {
	results, err := get[rawVehicleType](ctx, c, "/GetVehicleTypesForMakeId/"+strconv.Itoa(makeID), nil)
	if err != nil {
		return nil, errors.WrapResource("list", "vehicle types", strconv.Itoa(makeID), err)
	}
	types := make([]sources.VehicleTypeRecord, 0, len(results))
	for _, r := range results {
		types = append(types, sources.VehicleTypeRecord{ID: r.VehicleTypeID, Name: strings.TrimSpace(r.VehicleTypeName)})
	}
	return types, nil
}

// VehicleDetails returns the Canadian vehicle specifications of a make in a
// model year. Records without a model label are dropped.
func (c *Client) VehicleDetails(ctx context.Context, year int, makeName string) ([]vehicles.StyleDetail, error) {
	query := url.Values{}
	query.Set("Year", strconv.Itoa(year))
	query.Set("Make", makeName)
	query.Set("Model", "")
	query.Set("units", "")

	results, err := get[rawSpecification](ctx, c, "/GetCanadianVehicleSpecifications/", query)
	if err != nil {
		return nil, err
	}
	details := make([]vehicles.StyleDetail, 0, len(results))
	for _, r := range results {
		if detail, ok := r.detail(ctx); ok {
			details = append(details, detail)
		}
	}
	return details, nil
}
