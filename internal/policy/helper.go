package policy

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Raw shape of one element of `gcloud app versions list --format=json`.
// Only the fields the classifier cares about are mapped; the payload carries
// plenty more that we deliberately ignore.
type rawVersion struct {
	ID           string  `json:"id"`
	Project      string  `json:"project"`
	Service      string  `json:"service"`
	TrafficSplit float64 `json:"traffic_split"`

	Version struct {
		// gcloud encodes this as a string ("2154680"); absent means 0.
		DiskUsageBytes int64 `json:"diskUsageBytes"`
	} `json:"version"`

	LastDeployedTime struct {
		Datetime time.Time `json:"datetime"`
	} `json:"last_deployed_time"`
}

// ParseVersionRecords converts the raw JSON array emitted by the management
// CLI into typed VersionRecords.
//
// The payload is decoded in two stages: encoding/json gets us loose maps,
// and a weakly-typed mapstructure decoder handles the CLI's type quirks
// (string-encoded integers, two possible timestamp layouts). A single record
// that fails to decode fails the whole list, since a partial view of the
// deployed versions would make the retention decision unsound.
func ParseVersionRecords(payload []byte) ([]VersionRecord, error) {
	var entries []map[string]any
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("version list is not a JSON array: %w", err)
	}

	records := make([]VersionRecord, 0, len(entries))
	for i, entry := range entries {
		raw, err := decodeRawVersion(entry)
		if err != nil {
			return nil, fmt.Errorf("version record %d: %w", i, err)
		}
		records = append(records, VersionRecord{
			ID:               raw.ID,
			Project:          raw.Project,
			Service:          raw.Service,
			TrafficSplit:     raw.TrafficSplit,
			DiskUsageBytes:   raw.Version.DiskUsageBytes,
			LastDeployedTime: raw.LastDeployedTime.Datetime,
		})
	}
	return records, nil
}

// decodeRawVersion runs one loose map through a weakly-typed decoder using
// JSON tags, so string-to-int coercion and the timestamp hook apply.
func decodeRawVersion(entry map[string]any) (*rawVersion, error) {
	var result rawVersion

	config := &mapstructure.DecoderConfig{
		Result:           &result,
		WeaklyTypedInput: true,
		TagName:          "json",
		DecodeHook:       stringToDeployTimeHook(),
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(entry); err != nil {
		return nil, err
	}

	return &result, nil
}

// deployTimeLayouts are the timestamp formats the management CLI is known to
// emit. The space-separated layout is what `--format=json` produces today;
// RFC3339 is accepted for forward compatibility.
var deployTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05-07:00",
}

// stringToDeployTimeHook decodes timestamp strings into time.Time, trying
// each known layout in order.
func stringToDeployTimeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
			return data, nil
		}

		value := data.(string)
		for _, layout := range deployTimeLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("unparseable deploy time '%s'", value)
	}
}
