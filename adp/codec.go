// Package adp implements the default protocol codec for actors that
// self-describe via ADP: parsing Info responses into capability metadata,
// generating the tag encoding for outbound messages, and a legacy
// schema-validation pass kept for defense in depth.
package adp

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ALLiDoizCode/adp-relay/core"
)

// Codec is the default core.ProtocolCodec. Stateless and safe for
// concurrent use.
type Codec struct{}

// New creates a Codec.
func New() *Codec {
	return &Codec{}
}

// infoDocument mirrors the ADP wire shape of a capability document. The
// handler list also appears under "handlerRegistry" in older actors.
type infoDocument struct {
	ProtocolVersion string                   `json:"protocolVersion"`
	Handlers        []core.HandlerDescriptor `json:"handlers"`
	HandlerRegistry []core.HandlerDescriptor `json:"handlerRegistry"`
	Capabilities    map[string]bool          `json:"capabilities"`
}

// ParseInfoResponse parses the payload of an Info query response into
// actor metadata. Returns an error when the payload is absent, is not
// JSON, or declares no handlers.
func (c *Codec) ParseInfoResponse(raw *core.Response) (*core.ActorMetadata, error) {
	if raw == nil || strings.TrimSpace(raw.Payload) == "" {
		return nil, fmt.Errorf("%w: empty info response", core.ErrMetadataUnparseable)
	}

	var doc infoDocument
	if err := json.Unmarshal([]byte(raw.Payload), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMetadataUnparseable, err)
	}

	handlers := doc.Handlers
	if len(handlers) == 0 {
		handlers = doc.HandlerRegistry
	}
	if len(handlers) == 0 {
		return nil, fmt.Errorf("%w: no handlers declared", core.ErrMetadataUnparseable)
	}

	version := doc.ProtocolVersion
	if version == "" {
		version = "1.0"
	}

	return &core.ActorMetadata{
		ProtocolVersion: version,
		Handlers:        handlers,
		Capabilities:    doc.Capabilities,
	}, nil
}

// GenerateMessageTags produces the tag encoding for a dispatch: the Action
// tag first, then one tag per parameter in declared order, undeclared
// parameters last.
func (c *Codec) GenerateMessageTags(handler *core.HandlerDescriptor, parameters map[string]interface{}) []core.Tag {
	tags := []core.Tag{{Name: "Action", Value: handler.Action}}

	seen := make(map[string]bool, len(parameters))
	for _, p := range handler.Parameters {
		v, ok := parameters[p.Name]
		if !ok || v == nil {
			continue
		}
		tags = append(tags, core.Tag{Name: p.Name, Value: FormatValue(v)})
		seen[p.Name] = true
	}
	for name, v := range parameters {
		if seen[name] || v == nil {
			continue
		}
		tags = append(tags, core.Tag{Name: name, Value: FormatValue(v)})
	}
	return tags
}

// ValidateParameters is the legacy schema check retained from earlier
// protocol revisions. It only verifies required presence and basic type
// affinity; the full validator supersedes it but both passes run.
func (c *Codec) ValidateParameters(handler *core.HandlerDescriptor, parameters map[string]interface{}) (bool, []string) {
	var errs []string
	for _, p := range handler.Parameters {
		v, ok := parameters[p.Name]
		if !ok || v == nil {
			if p.Required {
				errs = append(errs, fmt.Sprintf("missing required parameter %q", p.Name))
			}
			continue
		}
		switch p.Type {
		case core.ParamNumber:
			if _, ok := toFloat(v); !ok {
				errs = append(errs, fmt.Sprintf("parameter %q is not a number", p.Name))
			}
		case core.ParamBoolean:
			if _, ok := v.(bool); !ok {
				errs = append(errs, fmt.Sprintf("parameter %q is not a boolean", p.Name))
			}
		}
	}
	return len(errs) == 0, errs
}

// FormatValue renders a parameter value as a tag string. Numbers keep
// their shortest decimal form; structured values are JSON-encoded.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// EncodePayload serializes a parameter map for payload-mode dispatch.
func EncodePayload(parameters map[string]interface{}) ([]byte, error) {
	return json.Marshal(parameters)
}

// DecodePayload parses a payload produced by EncodePayload.
func DecodePayload(data []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
