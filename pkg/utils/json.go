package utils

import (
	"bytes"
	"encoding/json"
)

// PrettyJson indenta um payload JSON para logs de depuração. Um corpo que
// não for JSON válido é devolvido como veio.
func PrettyJson(in any) string {
	buffer, ok := in.([]byte)
	if !ok {
		var err error
		buffer, err = json.Marshal(in)
		if err != nil {
			return ""
		}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buffer, "", "\t"); err != nil {
		return string(buffer)
	}

	return out.String()
}
