package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Tipos de registro fuente referenciables desde un MovementEvent.
const (
	SourceTypeOPENING      = "OPENING"
	SourceTypeDISPATCH     = "DISPATCH"
	SourceTypeRETURN       = "RETURN"
	SourceTypeDAMAGE       = "DAMAGE"
	SourceTypeRECOVERY     = "RECOVERY"
	SourceTypeSELFTRANSFER = "SELF_TRANSFER"
)

// Reference identifica el registro fuente (despacho, devolución, avería,
// recuperación o traslado) que originó un evento del ledger. Sustituye la
// antigua clave concatenada a mano: el formato de cable es "TYPE:id" y este
// par Format/Parse es el único punto donde se produce o interpreta.
type Reference struct {
	Type     string
	SourceID int64
}

// IsZero indica si la referencia está vacía (eventos OPENING sin fuente).
func (r Reference) IsZero() bool {
	return r.Type == "" && r.SourceID == 0
}

// Format serializa la referencia al formato de cable "TYPE:id".
func (r Reference) Format() string {
	if r.IsZero() {
		return ""
	}
	return r.Type + ":" + strconv.FormatInt(r.SourceID, 10)
}

// String implementa fmt.Stringer.
func (r Reference) String() string { return r.Format() }

// ParseReference interpreta "TYPE:id". Cadena vacía = referencia vacía válida.
func ParseReference(s string) (Reference, error) {
	if s == "" {
		return Reference{}, nil
	}
	typ, idStr, ok := strings.Cut(s, ":")
	if !ok {
		return Reference{}, fmt.Errorf("referencia %q: falta separador ':'", s)
	}
	if !validSourceType(typ) {
		return Reference{}, fmt.Errorf("referencia %q: tipo desconocido", s)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return Reference{}, fmt.Errorf("referencia %q: id inválido", s)
	}
	return Reference{Type: typ, SourceID: id}, nil
}

func validSourceType(t string) bool {
	switch t {
	case SourceTypeOPENING, SourceTypeDISPATCH, SourceTypeRETURN,
		SourceTypeDAMAGE, SourceTypeRECOVERY, SourceTypeSELFTRANSFER:
		return true
	}
	return false
}
