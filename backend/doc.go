// Package backend provides a register file and a memory image that
// satisfy the esil.Registers and esil.Memory collaborators.
package backend
