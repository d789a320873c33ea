package namecodec

import "testing"

func TestDecodeSimpleElement(t *testing.T) {
	serialized := "::" + sepMeta + "Foo" + sepPart + sepSig

	h := Decode(serialized)

	if h.Delimiter != "::" {
		t.Errorf("Delimiter = %q, want ::", h.Delimiter)
	}
	if len(h.Elements) != 1 || h.Elements[0].Name != "Foo" {
		t.Fatalf("Elements = %+v", h.Elements)
	}
}

func TestDecodeMultiElementWithPrefixPostfix(t *testing.T) {
	serialized := "::" + sepMeta +
		"MyNS" + sepPart + sepSig +
		sepName +
		"Foo" + sepPart + sepSig +
		sepName +
		"bar" + sepPart + "void " + sepSig + "()"

	h := Decode(serialized)

	if len(h.Elements) != 3 {
		t.Fatalf("len(Elements) = %d, want 3", len(h.Elements))
	}
	last := h.Elements[2]
	if last.Name != "bar" || last.Prefix != "void " || last.Postfix != "()" {
		t.Errorf("last element = %+v", last)
	}
	if FQN(h) != "MyNS::Foo::bar" {
		t.Errorf("FQN() = %q", FQN(h))
	}
}

func TestDecodeMalformedTailFallsBackToPartial(t *testing.T) {
	// Second element chunk is garbage with no PART/SIG structure recoverable
	// past the first element: the decoder still accepts it as a bare name.
	serialized := "::" + sepMeta + "Foo" + sepPart + sepSig + sepName + "whatever"

	h := Decode(serialized)

	if len(h.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(h.Elements))
	}
	if h.Elements[1].Name != "whatever" {
		t.Errorf("Elements[1].Name = %q", h.Elements[1].Name)
	}
}

func TestDecodeNoMetaFallsBackToRawInput(t *testing.T) {
	h := Decode("just a raw identifier")

	if h.Delimiter != defaultDelimiter {
		t.Errorf("Delimiter = %q, want default", h.Delimiter)
	}
	if len(h.Elements) != 1 || h.Elements[0].Name != "just a raw identifier" {
		t.Fatalf("Elements = %+v", h.Elements)
	}
}

func TestEncodeRoundTripsFQN(t *testing.T) {
	h := NameHierarchy{
		Delimiter: "::",
		Elements: []NameElement{
			{Name: "MyNS"},
			{Name: "Foo"},
			{Name: "bar", Prefix: "void ", Postfix: "()"},
		},
	}

	key := Encode(h)
	decoded := Decode(key)

	if FQN(decoded) != FQN(h) {
		t.Errorf("FQN after round trip = %q, want %q", FQN(decoded), FQN(h))
	}
	// Encode always emits empty prefix/postfix: it builds an exact-match
	// lookup key, not a faithful re-emission.
	if decoded.Elements[2].Prefix != "" || decoded.Elements[2].Postfix != "" {
		t.Errorf("Encode should drop prefix/postfix, got %+v", decoded.Elements[2])
	}
}

func TestSimpleName(t *testing.T) {
	h := Decode("::" + sepMeta + "MyNS" + sepPart + sepSig + sepName + "Foo" + sepPart + sepSig)

	if SimpleName(h) != "Foo" {
		t.Errorf("SimpleName() = %q, want Foo", SimpleName(h))
	}
}

func TestLastElementOnSingleElementHierarchy(t *testing.T) {
	h := Decode("bare")

	if LastElement(h).Name != "bare" {
		t.Errorf("LastElement().Name = %q, want bare", LastElement(h).Name)
	}
}
