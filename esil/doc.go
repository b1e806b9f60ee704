// Package esil implements an interpreter for the Evaluable Instruction
// Semantics Language.
//
// An ESIL string is a comma separated, postfix description of the side
// effects of a single machine instruction: register writes, memory
// reads and writes, flag derivation, conditional blocks and traps. A
// Machine evaluates one such string per call to Parse against the
// register file and memory image supplied by the host through the
// Registers and Memory interfaces, optionally intercepted by Hooks.
//
// Flags are not stored. Operators that write a register or memory
// location at a known width stamp the value before and after the write
// together with that width, and the internal values (%z, %c7, %b8, %o,
// %p, %s) recompute the CPU flag from that stamp on demand.
package esil
