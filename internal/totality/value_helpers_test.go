package totality

import "go/constant"

func stringValue(s string) Value { return Value{c: constant.MakeString(s)} }
func intValue(i int64) Value { return Value{c: constant.MakeInt64(i)} }
func floatValue(f float64) Value { return Value{c: constant.MakeFloat64(f)} }
func boolValue(b bool) Value { return Value{c: constant.MakeBool(b)} }
