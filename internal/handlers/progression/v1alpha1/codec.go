package v1alpha1

import (
	"bytes"
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// decode reads a Struct into a request type. Unknown fields are rejected so a
// misspelled field fails loudly instead of being dropped.
func decode(in *structpb.Struct, v any) error {
	return decodeStruct(in, v, true)
}

// decodeResponse reads a response leniently so older clients tolerate new fields
func decodeResponse(in *structpb.Struct, v any) error {
	return decodeStruct(in, v, false)
}

func decodeStruct(in *structpb.Struct, v any, strict bool) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed request")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed request")
	}
	return nil
}

// encode writes a response type as a Struct
func encode(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to encode response")
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to encode response")
	}
	return out, nil
}

func fromStatus(err error) error {
	return errors.FromGRPCError(err)
}
