package shroud

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

type address struct {
	Street string `anonymize:"redact"`
	City   string
	Zip    string `anonymize:"mask"`
}

type patient struct {
	ID      string
	Name    string `anonymize:"mask,format=name"`
	SSN     string `anonymize:"hash"`
	Age     int    `anonymize:"range,interval=25"`
	Tags    []string
	Meta    map[string]string
	Home    address
	Work    *address
	Extra   any
	Born    time.Time
	Notes   string `anonymize:"-"`
	private string
}

type level3 struct {
	Secret string `anonymize:"redact"`
	Plain  string
}

type level2 struct {
	Inner *level3
	Note  string
}

type level1 struct {
	Mid level2
	Top string `anonymize:"hash"`
}

type pointers struct {
	Phone *string `anonymize:"mask"`
	Age   *int    `anonymize:"range,interval=10"`
	None  *string `anonymize:"mask"`
	Plain *string
}

type mismatch struct {
	Count int    `anonymize:"hash"`
	Label string `anonymize:"redact"`
}

type ssn string

type named struct {
	SSN ssn    `anonymize:"hash"`
	Raw []byte `anonymize:"mask"`
	Zip uint32 `anonymize:"range,interval=1000"`
}

type bundle struct {
	Items []address
	ByID  map[string]address
	Fixed [2]address
}

type Audit struct {
	Token string `anonymize:"redact"`
}

type withEmbedded struct {
	Audit
	Name string
}

type opaque struct {
	Secret string `anonymize:"redact"`
}

type holder struct {
	O opaque
}

type tokenValue struct {
	value string
}

func (t tokenValue) AnonymizeWith(transforms map[Method]Transform) (any, error) {
	h, err := transforms[MethodHash].Apply(t.value)
	if err != nil {
		return nil, err
	}
	return tokenValue{value: h.(string)}, nil
}

type ptrOverride struct {
	V string
}

func (p *ptrOverride) AnonymizeWith(map[Method]Transform) (any, error) {
	return &ptrOverride{V: "over:" + p.V}, nil
}

type brokenOverride struct {
	V string
}

func (brokenOverride) AnonymizeWith(map[Method]Transform) (any, error) {
	return nil, errors.New("boom")
}

type overrides struct {
	Token  tokenValue
	Ptr    ptrOverride
	Broken brokenOverride
}

func collectSink() (Sink, func() []string) {
	var (
		mu       sync.Mutex
		messages []string
	)
	sink := SinkFunc(func(_ context.Context, message string) {
		mu.Lock()
		defer mu.Unlock()
		messages = append(messages, message)
	})
	return sink, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), messages...)
	}
}

func samplePatient() patient {
	return patient{
		ID:      "p-1",
		Name:    "John Smith",
		SSN:     "",
		Age:     34,
		Tags:    []string{"vip"},
		Meta:    map[string]string{"source": "intake"},
		Home:    address{Street: "1 Main St", City: "Springfield", Zip: "90210"},
		Work:    &address{Street: "2 Office Rd", City: "Shelbyville", Zip: "90211"},
		Born:    time.Date(1990, 1, 2, 3, 4, 5, 0, time.UTC),
		Notes:   "internal",
		private: "hidden",
	}
}

func TestAnonymize_Patient(t *testing.T) {
	a := New(WithSink(SinkFunc(func(context.Context, string) {})))
	in := samplePatient()

	got, err := Anonymize(context.Background(), a, in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}

	if got.ID != "p-1" {
		t.Errorf("ID = %q, want p-1", got.ID)
	}
	if got.Name != "J*** S****" {
		t.Errorf("Name = %q, want J*** S****", got.Name)
	}
	if got.SSN != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("SSN = %q, want sha256 of empty string", got.SSN)
	}
	if got.Age != 25 {
		t.Errorf("Age = %d, want 25", got.Age)
	}
	if got.Home.Street != RedactedLiteral || got.Home.City != "Springfield" || got.Home.Zip != "*0210" {
		t.Errorf("Home = %+v", got.Home)
	}
	if got.Work == nil || got.Work == in.Work {
		t.Fatal("Work should be a new pointer")
	}
	if got.Work.Street != RedactedLiteral || got.Work.City != "Shelbyville" || got.Work.Zip != "*0211" {
		t.Errorf("Work = %+v", *got.Work)
	}
	if !got.Born.Equal(in.Born) {
		t.Errorf("Born = %v, want %v", got.Born, in.Born)
	}
	if got.Notes != "" {
		t.Errorf("Notes = %q, want zero value for skipped field", got.Notes)
	}
	if got.private != "" {
		t.Errorf("private = %q, want zero value for unexported field", got.private)
	}
	if got.Extra != nil {
		t.Errorf("Extra = %v, want nil", got.Extra)
	}
}

func TestAnonymize_InputUntouched(t *testing.T) {
	a := New()
	in := samplePatient()
	want := samplePatient()

	if _, err := Anonymize(context.Background(), a, in); err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	if _, err := a.Anonymize(context.Background(), &in); err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}

	if !reflect.DeepEqual(in, want) {
		t.Errorf("input modified:\ngot  %+v\nwant %+v", in, want)
	}
}

func TestAnonymize_Nil(t *testing.T) {
	a := New()

	got, err := a.Anonymize(context.Background(), nil)
	if err != nil || got != nil {
		t.Errorf("Anonymize(nil) = %v, %v; want nil, nil", got, err)
	}

	p, err := Anonymize[*patient](context.Background(), a, nil)
	if err != nil || p != nil {
		t.Errorf("Anonymize[*patient](nil) = %v, %v; want nil, nil", p, err)
	}

	v, err := Anonymize[any](context.Background(), a, nil)
	if err != nil || v != nil {
		t.Errorf("Anonymize[any](nil) = %v, %v; want nil, nil", v, err)
	}
}

func TestAnonymize_PassThrough(t *testing.T) {
	a := New()
	slice := []int{1, 2, 3}
	m := map[string]int{"a": 1}

	tests := []struct {
		name  string
		value any
	}{
		{"int", 42},
		{"string", "secret"},
		{"float", 3.5},
		{"bool", true},
		{"time", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Anonymize(context.Background(), tt.value)
			if err != nil {
				t.Fatalf("Anonymize() error: %v", err)
			}
			if got != tt.value {
				t.Errorf("Anonymize(%v) = %v", tt.value, got)
			}
		})
	}

	got, _ := a.Anonymize(context.Background(), slice)
	if reflect.ValueOf(got).Pointer() != reflect.ValueOf(slice).Pointer() {
		t.Error("slice should be returned as is")
	}
	got, _ = a.Anonymize(context.Background(), m)
	if reflect.ValueOf(got).Pointer() != reflect.ValueOf(m).Pointer() {
		t.Error("map should be returned as is")
	}
}

func TestAnonymize_TopLevelPointer(t *testing.T) {
	a := New()
	in := samplePatient()

	out, err := a.Anonymize(context.Background(), &in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	p, ok := out.(*patient)
	if !ok {
		t.Fatalf("Anonymize(&patient) returned %T", out)
	}
	if p == &in {
		t.Error("result should be a new pointer")
	}
	if p.Name != "J*** S****" {
		t.Errorf("Name = %q", p.Name)
	}
}

func TestAnonymize_Depth(t *testing.T) {
	a := New()
	in := level1{
		Mid: level2{Inner: &level3{Secret: "deep", Plain: "keep"}, Note: "note"},
		Top: "top",
	}

	out, err := Anonymize(context.Background(), a, in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}

	top, _ := Hash().Apply("top")
	if out.Top != top {
		t.Errorf("Top = %q, want %q", out.Top, top)
	}
	if out.Mid.Note != "note" {
		t.Errorf("Mid.Note = %q", out.Mid.Note)
	}
	if out.Mid.Inner == nil || out.Mid.Inner == in.Mid.Inner {
		t.Fatal("Mid.Inner should be a new pointer")
	}
	if out.Mid.Inner.Secret != RedactedLiteral || out.Mid.Inner.Plain != "keep" {
		t.Errorf("Mid.Inner = %+v", *out.Mid.Inner)
	}
	if in.Mid.Inner.Secret != "deep" {
		t.Error("input modified")
	}
}

func TestAnonymize_UntaggedSubtreeEqual(t *testing.T) {
	type leaf struct {
		A string
		B int
		C []byte
	}
	type tree struct {
		Left  leaf
		Right *leaf
	}

	a := New()
	in := tree{Left: leaf{A: "a", B: 1, C: []byte("c")}, Right: &leaf{A: "r", B: 2}}
	out, err := Anonymize(context.Background(), a, in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("untagged tree changed:\ngot  %+v\nwant %+v", out, in)
	}
}

func TestAnonymize_CollectionsUntouched(t *testing.T) {
	a := New()
	in := bundle{
		Items: []address{{Street: "1 Main St", Zip: "90210"}},
		ByID:  map[string]address{"x": {Street: "2 Side St"}},
		Fixed: [2]address{{Street: "3 Back St"}, {Street: "4 Front St"}},
	}

	out, err := Anonymize(context.Background(), a, in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("collections changed:\ngot  %+v\nwant %+v", out, in)
	}
	if reflect.ValueOf(out.Items).Pointer() != reflect.ValueOf(in.Items).Pointer() {
		t.Error("slice should be shared, not copied")
	}
	if reflect.ValueOf(out.ByID).Pointer() != reflect.ValueOf(in.ByID).Pointer() {
		t.Error("map should be shared, not copied")
	}
}

func TestAnonymize_PointerFields(t *testing.T) {
	a := New()
	phone := "555-123-4567"
	age := 34
	plain := "plain"
	in := pointers{Phone: &phone, Age: &age, Plain: &plain}

	out, err := Anonymize(context.Background(), a, in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}

	if out.Phone == nil || out.Phone == in.Phone || *out.Phone != "********4567" {
		t.Errorf("Phone = %v", out.Phone)
	}
	if out.Age == nil || out.Age == in.Age || *out.Age != 30 {
		t.Errorf("Age = %v", out.Age)
	}
	if out.None != nil {
		t.Errorf("None = %v, want nil", out.None)
	}
	if out.Plain != in.Plain {
		t.Error("non-sensitive pointer to a scalar should be shared")
	}
	if phone != "555-123-4567" || age != 34 {
		t.Error("input modified through pointer")
	}
}

func TestAnonymize_InterfaceField(t *testing.T) {
	a := New()

	t.Run("Struct", func(t *testing.T) {
		in := patient{Extra: address{Street: "1 Main St", City: "Springfield"}}
		out, err := Anonymize(context.Background(), a, in)
		if err != nil {
			t.Fatalf("Anonymize() error: %v", err)
		}
		got, ok := out.Extra.(address)
		if !ok {
			t.Fatalf("Extra = %T, want address", out.Extra)
		}
		if got.Street != RedactedLiteral || got.City != "Springfield" {
			t.Errorf("Extra = %+v", got)
		}
	})

	t.Run("Pointer", func(t *testing.T) {
		addr := &address{Street: "1 Main St"}
		in := patient{Extra: addr}
		out, err := Anonymize(context.Background(), a, in)
		if err != nil {
			t.Fatalf("Anonymize() error: %v", err)
		}
		got, ok := out.Extra.(*address)
		if !ok || got == addr {
			t.Fatalf("Extra = %#v, want a new *address", out.Extra)
		}
		if got.Street != RedactedLiteral {
			t.Errorf("Extra.Street = %q", got.Street)
		}
	})

	t.Run("Scalar", func(t *testing.T) {
		in := patient{Extra: 42}
		out, err := Anonymize(context.Background(), a, in)
		if err != nil {
			t.Fatalf("Anonymize() error: %v", err)
		}
		if out.Extra != 42 {
			t.Errorf("Extra = %v, want 42", out.Extra)
		}
	})
}

func TestAnonymize_Conversions(t *testing.T) {
	a := New()
	in := named{SSN: "123-45-6789", Raw: []byte("4111111111111111"), Zip: 90210}

	out, err := Anonymize(context.Background(), a, in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}

	want, _ := Hash().Apply("123-45-6789")
	if string(out.SSN) != want {
		t.Errorf("SSN = %q, want %q", out.SSN, want)
	}
	if string(out.Raw) != "************1111" {
		t.Errorf("Raw = %q", out.Raw)
	}
	if out.Zip != 90000 {
		t.Errorf("Zip = %d, want 90000", out.Zip)
	}
}

func TestAnonymize_Unassignable(t *testing.T) {
	sink, messages := collectSink()
	a := New(WithSink(sink))

	out, err := Anonymize(context.Background(), a, mismatch{Count: 7, Label: "label"})
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	if out.Count != 7 {
		t.Errorf("Count = %d, want original 7", out.Count)
	}
	if out.Label != RedactedLiteral {
		t.Errorf("Label = %q", out.Label)
	}

	got := messages()
	if len(got) != 1 || !strings.Contains(got[0], "mismatch.Count") || !strings.Contains(got[0], ErrUnassignable.Error()) {
		t.Errorf("sink messages = %q", got)
	}
}

func TestAnonymize_Embedded(t *testing.T) {
	a := New()
	res, err := a.Anonymize(context.Background(), withEmbedded{Audit: Audit{Token: "t0k3n"}, Name: "n"})
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	out := res.(withEmbedded)
	if out.Token != RedactedLiteral || out.Name != "n" {
		t.Errorf("out = %+v", out)
	}
}

func TestAnonymize_Atomic(t *testing.T) {
	in := holder{O: opaque{Secret: "s"}}

	out, err := Anonymize(context.Background(), New(), in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	if out.O.Secret != RedactedLiteral {
		t.Errorf("O.Secret = %q, want redacted", out.O.Secret)
	}

	a := New(WithAtomic(reflect.TypeFor[opaque]()))
	out, err = Anonymize(context.Background(), a, in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	if out.O.Secret != "s" {
		t.Errorf("O.Secret = %q, want atomic copy", out.O.Secret)
	}
}

func TestAnonymize_Overrides(t *testing.T) {
	sink, messages := collectSink()
	a := New(WithSink(sink))
	in := overrides{
		Token:  tokenValue{value: "abc"},
		Ptr:    ptrOverride{V: "x"},
		Broken: brokenOverride{V: "keep"},
	}

	out, err := Anonymize(context.Background(), a, in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}

	want, _ := Hash().Apply("abc")
	if out.Token.value != want {
		t.Errorf("Token = %q, want %q", out.Token.value, want)
	}
	if out.Ptr.V != "over:x" {
		t.Errorf("Ptr.V = %q, want over:x", out.Ptr.V)
	}
	if out.Broken.V != "keep" {
		t.Errorf("Broken.V = %q, want original", out.Broken.V)
	}

	got := messages()
	if len(got) != 1 || !strings.Contains(got[0], "boom") {
		t.Errorf("sink messages = %q", got)
	}
}

func TestAnonymize_CustomTransform(t *testing.T) {
	a := New(WithTransform(MethodHash, TransformFunc(func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return "H", nil
	})))

	out, err := Anonymize(context.Background(), a, samplePatient())
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	if out.SSN != "H" {
		t.Errorf("SSN = %q, want custom output", out.SSN)
	}
	if out.Name != "J*** S****" || out.Age != 25 || out.Home.Street != RedactedLiteral {
		t.Errorf("other methods should keep built-in behavior: %+v", out)
	}
}

func TestAnonymize_FailingTransform(t *testing.T) {
	type failingRecord struct {
		Card  string `anonymize:"vault"`
		Email string `anonymize:"mask,format=email"`
		Name  string `anonymize:"redact"`
		Bomb  string `anonymize:"bomb"`
	}

	sink, messages := collectSink()
	a := New(
		WithSink(sink),
		WithTransforms(map[Method]Transform{
			"vault": TransformFunc(func(any) (any, error) { return nil, errors.New("backend down") }),
			"bomb":  TransformFunc(func(any) (any, error) { panic("kaboom") }),
		}),
	)

	in := failingRecord{Card: "4111", Email: "alice@example.com", Name: "Alice", Bomb: "tick"}
	out, err := Anonymize(context.Background(), a, in)
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}

	if out.Card != "4111" {
		t.Errorf("Card = %q, want original", out.Card)
	}
	if out.Bomb != "tick" {
		t.Errorf("Bomb = %q, want original", out.Bomb)
	}
	if out.Email != "a***@example.com" || out.Name != RedactedLiteral {
		t.Errorf("siblings not anonymized: %+v", out)
	}

	got := messages()
	if len(got) != 2 {
		t.Fatalf("sink messages = %q, want 2", got)
	}
	if !strings.Contains(got[0], "vault field failingRecord.Card: backend down") {
		t.Errorf("message[0] = %q", got[0])
	}
	if !strings.Contains(got[1], "kaboom") {
		t.Errorf("message[1] = %q", got[1])
	}
}

func TestAnonymize_RangeNotNumeric(t *testing.T) {
	type rangeRecord struct {
		Age string `anonymize:"range"`
	}
	sink, messages := collectSink()
	a := New(WithSink(sink))

	out, err := Anonymize(context.Background(), a, rangeRecord{Age: "unknown"})
	if err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	if out.Age != "unknown" {
		t.Errorf("Age = %q, want original", out.Age)
	}
	if got := messages(); len(got) != 1 || !strings.Contains(got[0], ErrNotNumeric.Error()) {
		t.Errorf("sink messages = %q", got)
	}
}

func TestAnonymize_MissingTransform(t *testing.T) {
	type missingRecord struct {
		Secret string `anonymize:"tokenize"`
	}

	_, err := Anonymize(context.Background(), New(), missingRecord{Secret: "x"})
	if !errors.Is(err, ErrMissingTransform) {
		t.Fatalf("error = %v, want ErrMissingTransform", err)
	}
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Method != "tokenize" || ce.Field != "missingRecord.Secret" {
		t.Errorf("ConfigError = %+v", ce)
	}

	a := New(WithTransform(MethodHash, nil))
	if _, err := a.Anonymize(context.Background(), samplePatient()); !errors.Is(err, ErrMissingTransform) {
		t.Errorf("error = %v, want ErrMissingTransform after removing hash", err)
	}
}

func TestAnonymize_NilSensitiveFieldSkipped(t *testing.T) {
	type nilMissingRecord struct {
		Secret *string `anonymize:"tokenize"`
		Email  *string `anonymize:"mask,format=email"`
	}

	sink, messages := collectSink()
	a := New(WithSink(sink))

	out, err := Anonymize(context.Background(), a, nilMissingRecord{})
	if err != nil {
		t.Fatalf("Anonymize() error = %v, want nil for absent values", err)
	}
	if out.Secret != nil || out.Email != nil {
		t.Errorf("Anonymize() = %+v, want nil fields", out)
	}
	if got := messages(); len(got) != 0 {
		t.Errorf("sink messages = %q", got)
	}

	if err := Validate[nilMissingRecord](a); !errors.Is(err, ErrMissingTransform) {
		t.Errorf("Validate() error = %v, want ErrMissingTransform", err)
	}
}

func TestAnonymize_InvalidTag(t *testing.T) {
	type badRangeRecord struct {
		Age int `anonymize:"range,interval=oops"`
	}

	_, err := Anonymize(context.Background(), New(), badRangeRecord{Age: 3})
	if !errors.Is(err, ErrInvalidTag) {
		t.Errorf("error = %v, want ErrInvalidTag", err)
	}
}

func TestAnonymize_Concurrent(t *testing.T) {
	a := New()
	in := samplePatient()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := Anonymize(context.Background(), a, in)
			if err != nil {
				errs <- err
				return
			}
			if out.Age != 25 {
				errs <- errors.New("unexpected Age")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestAssign(t *testing.T) {
	tests := []struct {
		name    string
		typ     reflect.Type
		res     any
		want    any
		wantErr bool
	}{
		{"nil", reflect.TypeFor[string](), nil, "", false},
		{"assignable", reflect.TypeFor[string](), "x", "x", false},
		{"interface", reflect.TypeFor[any](), "x", "x", false},
		{"named string", reflect.TypeFor[ssn](), "x", ssn("x"), false},
		{"bytes", reflect.TypeFor[[]byte](), "x", []byte("x"), false},
		{"numeric", reflect.TypeFor[int32](), int64(5), int32(5), false},
		{"string into int", reflect.TypeFor[int](), "5", nil, true},
		{"int into string", reflect.TypeFor[string](), 65, nil, true},
		{"bool into int", reflect.TypeFor[int](), true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assign(tt.typ, tt.res)
			if tt.wantErr {
				if !errors.Is(err, ErrUnassignable) {
					t.Errorf("error = %v, want ErrUnassignable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("assign() error: %v", err)
			}
			if !reflect.DeepEqual(got.Interface(), tt.want) {
				t.Errorf("assign() = %#v, want %#v", got.Interface(), tt.want)
			}
		})
	}
}

func TestAssign_Pointer(t *testing.T) {
	got, err := assign(reflect.TypeFor[*int](), 30)
	if err != nil {
		t.Fatalf("assign() error: %v", err)
	}
	p := got.Interface().(*int)
	if *p != 30 {
		t.Errorf("*p = %d, want 30", *p)
	}
}
