package cpu

import "fmt"

// DecodeError is returned when the instruction stream cannot be turned
// into an Instruction: the opcode is unassigned, a table entry yields a
// zero operand where one is required, or the stream ends mid-operand.
// It indicates a malformed program or table, never a transient
// condition, so it is not retried.
type DecodeError struct {
	Opcode   uint8
	Extended bool // opcode is from the 0xCB space
	Reason   string
}

func (e *DecodeError) Error() string {
	if e.Extended {
		return fmt.Sprintf("decode fault: opcode 0xCB%02X: %s", e.Opcode, e.Reason)
	}
	return fmt.Sprintf("decode fault: opcode 0x%02X: %s", e.Opcode, e.Reason)
}

// ExecutionError is returned when a decoded instruction cannot be
// applied: an unimplemented form was reached or a control-flow update
// produced an unrepresentable program counter.
type ExecutionError struct {
	Kind   Kind
	Reason string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution fault: %s: %s", e.Kind, e.Reason)
}

func decodeErr(opcode uint8, extended bool, format string, args ...interface{}) error {
	return &DecodeError{Opcode: opcode, Extended: extended, Reason: fmt.Sprintf(format, args...)}
}

func execErr(kind Kind, format string, args ...interface{}) error {
	return &ExecutionError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
