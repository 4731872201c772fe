package models

// Credential is the stored login record for one username
type Credential struct {
	PasswordHash string
	EncryptData  bool
}

// Row is one record of a tabular data file, keyed by column name
type Row map[string]string

// Clone returns a copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
