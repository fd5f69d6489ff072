package types

// Log is an event emitted by a contract during execution.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

// Copy returns a deep copy of the log.
func (l *Log) Copy() *Log {
	cpy := &Log{
		Address: l.Address,
		Topics:  make([]Hash, len(l.Topics)),
		Data:    make([]byte, len(l.Data)),
	}
	copy(cpy.Topics, l.Topics)
	copy(cpy.Data, l.Data)
	return cpy
}
