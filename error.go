package olink

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnresolved identifies every linking failure caused by a name that
// cannot be resolved; callers can test for it with errors.Is.
var ErrUnresolved = errors.New("unresolved name")

type LinkErrKind int

const (
	SegmentErrKind LinkErrKind = iota
	ImportErrKind
	SupertypeErrKind
	ReferenceErrKind
)

type LinkErr struct {
	kind      LinkErrKind
	iden      string
	qualified string
	pos       Position
}

func makeSegmentErr(iden string, qualified string) error {
	return &LinkErr{kind: SegmentErrKind, iden: iden, qualified: qualified}
}

func makeImportErr(imp *Import, cause error) error {
	err := &LinkErr{kind: ImportErrKind, iden: imp.Ref.Iden, pos: imp.Ref.Pos}
	return errors.WithSecondaryError(err, cause)
}

func makeSupertypeErr(ref *Reference, cause error) error {
	err := &LinkErr{kind: SupertypeErrKind, iden: ref.Iden, pos: ref.Pos}
	return errors.WithSecondaryError(err, cause)
}

func makeReferenceErr(ref *Reference) error {
	return &LinkErr{kind: ReferenceErrKind, iden: ref.Iden, pos: ref.Pos}
}

// Is makes every LinkErr answer to the ErrUnresolved sentinel.
func (err *LinkErr) Is(target error) bool {
	return target == ErrUnresolved
}

func (err *LinkErr) Error() string {
	var sb strings.Builder

	// header
	if err.kind != SegmentErrKind {
		sb.WriteString(err.pos.Header())
		sb.WriteRune(' ')
	}

	// text
	switch err.kind {
	case SegmentErrKind:
		fmt.Fprintf(&sb, "\"%s\" cannot be resolved", err.iden)
		if err.qualified != err.iden {
			fmt.Fprintf(&sb, " in \"%s\"", err.qualified)
		}
	case ImportErrKind:
		fmt.Fprintf(&sb, "imported \"%s\" cannot be resolved", err.iden)
	case SupertypeErrKind:
		fmt.Fprintf(&sb, "supertype \"%s\" cannot be resolved", err.iden)
	case ReferenceErrKind:
		fmt.Fprintf(&sb, "reference \"%s\" cannot be resolved", err.iden)
	default:
		panic(fmt.Sprintf("assertion error: unknown link errKind: %d", err.kind))
	}

	return sb.String()
}
