package workflow

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sqlmongo/compiler/atom"
)

// ToBSON renders a Workflow into the literal MongoDB aggregation-pipeline
// document shape: a bson.A of per-stage bson.D documents, outermost stage
// last. This is read-only serialization for logging/debugging and for
// handing the plan to an external driver; the core performs no I/O here
// (§6). Grounded on the pack's go.mongodb.org/mongo-driver dependency
// (present in the FerretDB manifest) and on other_examples'
// vhvplatform-go-shared mongodb-query_builder.go, which hand-builds
// bson.D/bson.M pipeline stages the same way.
func ToBSON(w *Workflow) (bson.A, error) {
	var stages []*Workflow
	for cur := w; cur != nil && cur.tag != StageRead; cur = cur.source {
		stages = append(stages, cur)
	}
	out := bson.A{}
	for i := len(stages) - 1; i >= 0; i-- {
		doc, err := stageToBSON(stages[i])
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func stageToBSON(w *Workflow) (bson.D, error) {
	switch w.tag {
	case StageProject:
		shape, err := reshapeToBSON(w.shape)
		if err != nil {
			return nil, err
		}
		switch w.idHandling {
		case IncludeId:
			shape = append(bson.D{{Key: "_id", Value: 1}}, shape...)
		case ExcludeId:
			shape = append(bson.D{{Key: "_id", Value: 0}}, shape...)
		}
		return bson.D{{Key: "$project", Value: shape}}, nil
	case StageGroup:
		grouped := bson.D{}
		for _, k := range w.grouped.Keys() {
			acc, _ := w.grouped.Get(k)
			v, err := exprToBSON(acc.Expr)
			if err != nil {
				return nil, err
			}
			grouped = append(grouped, bson.E{Key: k, Value: bson.D{{Key: acc.Tag.String(), Value: v}}})
		}
		byVal, err := shapeToBSON(w.by)
		if err != nil {
			return nil, err
		}
		groupDoc := append(bson.D{{Key: "_id", Value: byVal}}, grouped...)
		return bson.D{{Key: "$group", Value: groupDoc}}, nil
	case StageMatch:
		sel, err := exprToBSON(w.selector)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: sel}}}}, nil
	case StageSort:
		keys := bson.D{}
		for _, k := range w.sortKeys {
			dir := 1
			if k.Dir == Desc {
				dir = -1
			}
			keys = append(keys, bson.E{Key: k.Path.String(), Value: dir})
		}
		return bson.D{{Key: "$sort", Value: keys}}, nil
	case StageSkip:
		return bson.D{{Key: "$skip", Value: w.n}}, nil
	case StageLimit:
		return bson.D{{Key: "$limit", Value: w.n}}, nil
	case StageUnwind:
		return bson.D{{Key: "$unwind", Value: w.unwindVar.String()}}, nil
	case StageSimpleMap, StageMap, StageFlatMap, StageReduce:
		return bson.D{{Key: "$_jsStage", Value: w.js}}, nil
	default:
		return nil, fmt.Errorf("workflow: cannot render stage %s to BSON", w.tag)
	}
}

func shapeToBSON(s Shape) (interface{}, error) {
	if s.Tag() == ShapeNested {
		return reshapeToBSON(s.AsNested())
	}
	return exprToBSON(s.AsLeaf())
}

func reshapeToBSON(r *Reshape) (bson.D, error) {
	out := bson.D{}
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		rendered, err := shapeToBSON(v)
		if err != nil {
			return nil, err
		}
		out = append(out, bson.E{Key: k, Value: rendered})
	}
	return out, nil
}

func exprToBSON(e Expression) (interface{}, error) {
	switch e.Tag() {
	case ExprVar:
		return e.VarRef().String(), nil
	case ExprInclude:
		return 1, nil
	case ExprLiteral:
		return dataToBSON(e.LiteralValue()), nil
	case ExprOp:
		args := make(bson.A, len(e.OpArgs()))
		for i, a := range e.OpArgs() {
			v, err := exprToBSON(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		if len(args) == 1 {
			return bson.D{{Key: e.OpName(), Value: args[0]}}, nil
		}
		return bson.D{{Key: e.OpName(), Value: args}}, nil
	default:
		return nil, fmt.Errorf("workflow: cannot render expression %v", e)
	}
}

// dataToBSON renders a Data atom, wrapping any string beginning with "$"
// as {"$literal": "..."} per Testable Property 8 ("a Bson string beginning
// with $ must be serialized wrapped as {"$literal": "..."} and so must any
// literal string nested inside a literal array or document") — the wrap
// applies uniformly whether the string sits at the top of a $literal
// expression or nested inside one of its arrays/objects.
func dataToBSON(d atom.Data) interface{} {
	switch d.Kind() {
	case atom.KindNull:
		return nil
	case atom.KindBool:
		return d.Bool()
	case atom.KindInt:
		return d.Int().Int64()
	case atom.KindDec:
		dec128, err := primitive.ParseDecimal128(d.Dec().String())
		if err != nil {
			f, _ := d.Dec().Float64()
			return f
		}
		return dec128
	case atom.KindStr:
		if needsLiteralWrap(d.Str()) {
			return bson.D{{Key: "$literal", Value: d.Str()}}
		}
		return d.Str()
	case atom.KindTimestamp:
		return d.TimestampVal()
	case atom.KindDate:
		return d.DateVal().String()
	case atom.KindTime:
		return d.TimeVal().String()
	case atom.KindInterval:
		return d.IntervalVal().String()
	case atom.KindArr:
		arr := bson.A{}
		for _, item := range d.Arr() {
			arr = append(arr, dataToBSON(item))
		}
		return arr
	case atom.KindObj:
		out := bson.D{}
		for _, k := range d.Obj().Keys() {
			v, _ := d.Obj().Get(k)
			out = append(out, bson.E{Key: k, Value: dataToBSON(v)})
		}
		return out
	case atom.KindSet:
		arr := bson.A{}
		for _, item := range d.Set().Items() {
			arr = append(arr, dataToBSON(item))
		}
		return arr
	default:
		return nil
	}
}

func needsLiteralWrap(s string) bool {
	return strings.HasPrefix(s, "$")
}
