package classify

import "testing"

func TestClassify_KeywordMatching(t *testing.T) {
	cases := []struct {
		reason string
		want   Category
	}{
		{"TOPAZ - Problemas relacionados ao dispositivo durante a análise de segurança", CategoryTopaz},
		{"falha no device durante checagem", CategoryTopaz},
		{"ANTIFRAUDE - Sua solicitação não passou na análise antifraude", CategoryAntifraud},
		{"suspeita de fraude", CategoryAntifraud},
		{"PIX - Identificamos pendências relacionadas ao PIX durante a análise", CategoryPix},
		{"SERASA - Pendências no Serasa que precisam ser regularizadas antes de abrir sua conta", CategorySerasa},
		{"score abaixo do mínimo", CategorySerasa},
		{"PROVA_VIDA - A análise de documentos e selfie não foi aprovada. Por favor, tente novamente com documentos válidos e selfie nítida", CategoryLifeProof},
		{"similaridade biométrica insuficiente", CategoryLifeProof},
		{"motivo desconhecido", CategoryOther},
		{"", CategoryOther},
	}

	for _, tc := range cases {
		if got := Classify(tc.reason); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.reason, got, tc.want)
		}
	}
}

func TestClassify_PrecedenceFirstGroupWins(t *testing.T) {
	// "PIX" appears before "SERASA" in the group order, so a reason
	// naming both classifies as PIX.
	got := Classify("pendência no PIX detectada pelo Serasa")
	if got != CategoryPix {
		t.Fatalf("expected PIX to win precedence, got %s", got)
	}

	// "PENDENCIA" alone belongs to the Serasa group.
	if got := Classify("existem pendências em aberto"); got != CategorySerasa {
		t.Fatalf("expected SERASA for bare pendência, got %s", got)
	}
}

func TestClassify_AccentInsensitive(t *testing.T) {
	if got := Classify("há pendências financeiras"); got != CategorySerasa {
		t.Fatalf("accented reason did not classify, got %s", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	reason := "SERASA - Pendências no Serasa que precisam ser regularizadas antes de abrir sua conta"
	first := Classify(reason)
	for i := 0; i < 10; i++ {
		if got := Classify(reason); got != first {
			t.Fatalf("classification not deterministic: %s then %s", first, got)
		}
	}
}

func TestParse(t *testing.T) {
	if c, ok := Parse("serasa"); !ok || c != CategorySerasa {
		t.Fatalf("Parse(serasa) = %s, %v", c, ok)
	}
	if c, ok := Parse(" PROVA_VIDA "); !ok || c != CategoryLifeProof {
		t.Fatalf("Parse(PROVA_VIDA) = %s, %v", c, ok)
	}
	if _, ok := Parse("INVALID"); ok {
		t.Fatal("expected unknown code to not parse")
	}
	if _, ok := Parse(""); ok {
		t.Fatal("expected empty code to not parse")
	}
}

func TestResolveEvent(t *testing.T) {
	// Explicit code wins over contradicting free text.
	if got := ResolveEvent("PIX", "SERASA - pendências"); got != CategoryPix {
		t.Fatalf("explicit code did not win, got %s", got)
	}
	// Bad code falls back to classifying the reason.
	if got := ResolveEvent("???", "SERASA - pendências"); got != CategorySerasa {
		t.Fatalf("fallback classification failed, got %s", got)
	}
	// Nothing usable resolves to OUTROS.
	if got := ResolveEvent("", ""); got != CategoryOther {
		t.Fatalf("expected OUTROS, got %s", got)
	}
}

func TestCategoryCopy(t *testing.T) {
	for _, c := range []Category{CategoryTopaz, CategoryAntifraud, CategoryPix, CategorySerasa, CategoryLifeProof, CategoryOther} {
		if c.Title() == "" || c.Message() == "" {
			t.Fatalf("category %s has empty copy", c)
		}
	}
	if CategoryOther.Known() {
		t.Fatal("OUTROS must not be a known category")
	}
	if !CategoryPix.Known() {
		t.Fatal("PIX must be a known category")
	}
}
