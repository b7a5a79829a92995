package qdrantStore

import (
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/qdrant/go-client/qdrant"
)

func recordFromPayload(payload map[string]*qdrant.Value, vectors *qdrant.VectorsOutput) docmodel.Record {
	raw := make(map[string]any, len(payload))
	for k, v := range payload {
		raw[k] = valueToAny(v)
	}
	rec := docmodel.FromPayload(raw)
	if vec := vectorData(vectors); len(vec) > 0 {
		rec.Embedding = vec
	}
	return rec
}

func vectorData(vectors *qdrant.VectorsOutput) []float32 {
	if vectors == nil {
		return nil
	}
	v := vectors.GetVector()
	if v == nil {
		return nil
	}
	return v.GetData()
}

func valueToAny(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_ListValue:
		items := kind.ListValue.GetValues()
		out := make([]any, 0, len(items))
		for _, item := range items {
			out = append(out, valueToAny(item))
		}
		return out
	case *qdrant.Value_StructValue:
		fields := kind.StructValue.GetFields()
		out := make(map[string]any, len(fields))
		for k, item := range fields {
			out[k] = valueToAny(item)
		}
		return out
	default:
		return nil
	}
}
