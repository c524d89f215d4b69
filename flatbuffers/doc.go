// Package flatbuffers provides the low-level primitives shared by the
// writer, reader, vtable, and union packages: the three offset types, the
// little-endian encode/decode helpers for scalars, and the struct layout
// calculator.
package flatbuffers

// FlatBuffers 把对象数据保存在一个一维的 byte buffer 中：每个 table 被拆成两部分，
// 一部分是 vtable（字段偏移的索引，可在结构相同的多个 table 间共享），另一部分是字段
// 本身的数据。本模块的 writer 按先序遍历从头部向尾部分配地址（父 table 在子对象之前），
// 打包的 vtable 放在所有 table 之后，末尾是 root 偏移和 file identifier；reader 从尾部的
// root 偏移开始，沿 vtable 和各个偏移读取。
//
// vtable 的作用：table 的字段是可选的，字段是否存在、存储在何处，都记录在 vtable 里；
// 缺失的尾部字段让 vtable 变短，缺失的中间字段在 vtable 里留一个 0。结构相同的两个
// table（字段的 size/alignment 序列相同）共享同一份 vtable 字节，由 vtable 包做内存内
// 驻留（interning）。
//
// This package does not itself build or read a full buffer — see the writer
// and reader packages for that. It only supplies the pieces both sides need
// to agree on: byte widths, alignment rules, and the wire encoding of each
// scalar width.
