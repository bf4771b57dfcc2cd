package listing

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dave/jennifer/jen"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/ntmerge/record"
)

// RecordPackage is the import path generated listings depend on.
const RecordPackage = "github.com/roach88/ntmerge/record"

// FieldsVar names the field-list variable in generated listings.
const FieldsVar = "ntFields"

// DefaultVarName names the record list when Options.VarName is empty.
const DefaultVarName = "nts"

// defaultPackage is used when no package name can be derived from the destination.
const defaultPackage = "listing"

// Options controls how a listing is rendered.
type Options struct {
	// Doc is written as the package comment. Empty means no doc comment.
	Doc string

	// VarName names the variable holding the records. Defaults to DefaultVarName.
	VarName string

	// Package is the package clause of the generated file.
	// WriteFile derives it from the destination directory when empty.
	Package string

	// Now supplies the creation date. Defaults to time.Now.
	Now func() time.Time

	// Status receives the one-line write report. Defaults to os.Stdout.
	Status io.Writer

	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.VarName == "" {
		o.VarName = DefaultVarName
	}
	if o.Package == "" {
		o.Package = defaultPackage
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Status == nil {
		o.Status = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// WriteFile writes recs to path as a Go source file that rebuilds them.
//
// Nothing is written, and no status is reported, when recs is empty; the
// boolean result tells whether a file was produced. The file is created or
// truncated and is not written atomically.
func WriteFile(path string, recs []record.Record, opts Options) (wrote bool, err error) {
	if len(recs) == 0 {
		return false, nil
	}
	if opts.Package == "" {
		opts.Package = PackageFor(path)
	}
	opts = opts.withDefaults()

	file, err := build(recs, opts)
	if err != nil {
		return false, err
	}
	var buf bytes.Buffer
	if err := file.Render(&buf); err != nil {
		return false, fmt.Errorf("render listing: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("create listing: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			wrote, err = false, fmt.Errorf("close listing: %w", cerr)
		}
	}()

	if _, err := buf.WriteTo(f); err != nil {
		return false, fmt.Errorf("write listing: %w", err)
	}

	fmt.Fprintf(opts.Status, "  WROTE: %s\n", path)
	opts.Logger.Info("listing written", "path", path, "records", len(recs), "var", opts.VarName)
	return true, nil
}

// Render writes the listing for recs to w. recs must not be empty.
func Render(w io.Writer, recs []record.Record, opts Options) error {
	if len(recs) == 0 {
		return fmt.Errorf("no records to render")
	}
	file, err := build(recs, opts.withDefaults())
	if err != nil {
		return err
	}
	return file.Render(w)
}

// PackageFor derives a package name from the directory that will hold path.
func PackageFor(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return defaultPackage
	}
	var b strings.Builder
	for _, r := range strings.ToLower(filepath.Base(filepath.Dir(abs))) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if !token.IsIdentifier(name) {
		return defaultPackage
	}
	return name
}

func build(recs []record.Record, opts Options) (*jen.File, error) {
	schema := recs[0].Schema()
	if schema == nil {
		return nil, fmt.Errorf("record 0 has no schema")
	}
	if err := checkNames(schema.Name(), opts); err != nil {
		return nil, err
	}
	for i, r := range recs[1:] {
		if !schema.SameFields(r.Schema()) {
			return nil, fmt.Errorf("record %d: fields %v differ from %v", i+1, r.Fields(), schema.Fields())
		}
	}

	f := jen.NewFile(opts.Package)
	f.HeaderComment("Code generated by ntmerge. DO NOT EDIT.")
	if opts.Doc != "" {
		for _, line := range strings.Split(strings.TrimRight(opts.Doc, "\n"), "\n") {
			if strings.TrimSpace(line) == "" {
				line = "//"
			}
			f.PackageComment(line)
		}
	}
	f.ImportName(RecordPackage, "record")

	f.Comment("Created: " + opts.Now().Format(time.DateOnly))
	f.Line()

	f.Var().Id(FieldsVar).Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, field := range schema.Fields() {
			g.Line().Lit(field)
		}
		g.Line()
	})
	f.Line()

	f.Var().Id(schema.Name()).Op("=").Qual(RecordPackage, "MustSchema").Call(
		jen.Lit(schema.Name()),
		jen.Id(FieldsVar).Op("..."),
	)
	f.Line()

	entries := make([]jen.Code, 0, len(recs)+1)
	for i, r := range recs {
		args := make([]jen.Code, r.Len())
		for j := range args {
			lit, err := literal(r.At(j))
			if err != nil {
				return nil, fmt.Errorf("record %d field %q: %w", i, schema.Fields()[j], err)
			}
			args[j] = lit
		}
		entries = append(entries, jen.Line().Id(schema.Name()).Dot("Make").Call(args...))
	}
	entries = append(entries, jen.Line())

	f.Comment(countComment(len(recs)))
	f.Var().Id(opts.VarName).Op("=").Index().Qual(RecordPackage, "Record").Values(entries...)

	return f, nil
}

// reservedNames are identifiers the generated file refers to at package scope:
// its imports and the predeclared type of the field list.
var reservedNames = map[string]bool{
	"record": true,
	"math":   true,
	"string": true,
}

func checkNames(schemaName string, opts Options) error {
	for _, n := range []string{schemaName, opts.VarName, opts.Package} {
		if !token.IsIdentifier(n) {
			return fmt.Errorf("%q is not a valid Go identifier", n)
		}
	}
	for _, n := range []string{schemaName, opts.VarName} {
		if reservedNames[n] {
			return fmt.Errorf("name %q collides with an identifier the listing uses", n)
		}
	}
	if opts.VarName == FieldsVar || opts.VarName == schemaName {
		return fmt.Errorf("variable name %q collides with a generated declaration", opts.VarName)
	}
	if schemaName == FieldsVar || opts.Package == "record" {
		return fmt.Errorf("schema %q in package %q collides with a generated declaration", schemaName, opts.Package)
	}
	return nil
}

// countComment renders the record count with thousands grouping.
func countComment(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d items", n)
}

// literal renders a value as the Go expression that rebuilds it.
func literal(v record.Value) (jen.Code, error) {
	switch val := v.(type) {
	case nil, record.Null:
		return jen.Qual(RecordPackage, "Null").Values(), nil
	case record.String:
		return jen.Qual(RecordPackage, "String").Call(jen.Lit(string(val))), nil
	case record.Int:
		return jen.Qual(RecordPackage, "Int").Call(jen.Id(strconv.FormatInt(int64(val), 10))), nil
	case record.Float:
		return jen.Qual(RecordPackage, "Float").Call(floatLiteral(float64(val))), nil
	case record.Bool:
		return jen.Qual(RecordPackage, "Bool").Call(jen.Lit(bool(val))), nil
	case record.List:
		items := make([]jen.Code, len(val))
		for i, elem := range val {
			item, err := literal(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			items[i] = item
		}
		return jen.Qual(RecordPackage, "List").Values(items...), nil
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

func floatLiteral(v float64) jen.Code {
	switch {
	case math.IsNaN(v):
		return jen.Qual("math", "NaN").Call()
	case math.IsInf(v, 1):
		return jen.Qual("math", "Inf").Call(jen.Lit(1))
	case math.IsInf(v, -1):
		return jen.Qual("math", "Inf").Call(jen.Lit(-1))
	case v == 0 && math.Signbit(v):
		return jen.Qual("math", "Copysign").Call(jen.Id("0"), jen.Lit(-1))
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return jen.Id(s)
}
