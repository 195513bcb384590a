package interp

import (
	"fmt"
	"math"
	"strconv"
)

func standardBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"print":         builtinPrint(""),
		"printdebug":    builtinPrint("[debug] "),
		"inttostring":   intToString,
		"floattostring": floatToString,
		"inttofloat":    intToFloat,
		"floattoint":    floatToInt,
		"concatstrings": concatStrings,
	}
}

func builtinPrint(prefix string) Builtin {
	return func(in *Interpreter, args []Value) (Value, error) {
		if err := arity(args, 1); err != nil {
			return nil, err
		}
		_, err := fmt.Fprintln(in.out, prefix+FormatValue(args[0]))
		return nil, err
	}
}

func intToString(in *Interpreter, args []Value) (Value, error) {
	n, err := numberArg(args)
	if err != nil {
		return nil, err
	}
	return strconv.FormatInt(int64(n), 10), nil
}

func floatToString(in *Interpreter, args []Value) (Value, error) {
	n, err := numberArg(args)
	if err != nil {
		return nil, err
	}
	return strconv.FormatFloat(n, 'f', -1, 64), nil
}

func intToFloat(in *Interpreter, args []Value) (Value, error) {
	return numberArg(args)
}

func floatToInt(in *Interpreter, args []Value) (Value, error) {
	n, err := numberArg(args)
	if err != nil {
		return nil, err
	}
	return math.Trunc(n), nil
}

func concatStrings(in *Interpreter, args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return nil, err
	}
	return FormatValue(args[0]) + FormatValue(args[1]), nil
}

func arity(args []Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func numberArg(args []Value) (float64, error) {
	if err := arity(args, 1); err != nil {
		return 0, err
	}
	switch v := args[0].(type) {
	case float64:
		return v, nil
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("expected a number, got %s", describe(args[0]))
}
