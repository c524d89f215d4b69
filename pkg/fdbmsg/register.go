package fdbmsg

import "reflect"

// typeOf returns the reflect.Type of *T's element, given a typed nil
// pointer — the conventional way every host type in this package spells
// "my own reflect.Type" for the one-line traits.RegisterX call in its
// init().
func typeOf(zero interface{}) reflect.Type {
	return reflect.TypeOf(zero).Elem()
}
