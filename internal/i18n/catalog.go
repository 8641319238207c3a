package i18n

var catalogs = map[string]map[string]string{
	"en": {},
	"it": it,
}

var it = map[string]string{
	// report
	"GEO AUDIT":             "GEO AUDIT",
	"Score":                 "Punteggio",
	"Section":               "Sezione",
	"Status":                "Stato",
	"Not found":             "Non trovato",
	"No schema":             "Nessuno schema",
	"Found schemas":         "Schema trovati",
	"Recommendations":       "Raccomandazioni",
	"Extra checks":          "Controlli aggiuntivi",
	"Content Quality":       "Qualità dei contenuti",
	"Meta Tags":             "Meta tag",
	"GEO Audit Report":      "Report GEO Audit",
	"Check":                 "Controllo",
	"Details":               "Dettagli",
	"bots allowed":          "bot consentiti",
	"citation bots OK":      "bot di citazione OK",
	"citation bots missing": "bot di citazione mancanti",
	"sections":              "sezioni",
	"links":                 "link",
	"words":                 "parole",
	"numbers":               "numeri",
	"external links":        "link esterni",
	"title":                 "titolo",
	"description":           "descrizione",
	"canonical":             "canonical",
	"Generated on":          "Generato il",
	"Written to %s":         "Scritto in %s",
	"All main optimizations are implemented.": "Ottimo! Tutte le ottimizzazioni principali sono implementate.",

	// bands
	"Site optimized for AI search engines!":   "Sito ottimizzato per AI search engines!",
	"Some optimizations still possible":       "Alcune ottimizzazioni ancora possibili",
	"Implement the missing optimizations":     "Implementa le ottimizzazioni mancanti",
	"The site is not optimized for AI search": "Il sito non è ottimizzato per AI search",

	// recommendations
	"Update robots.txt to allow all AI bots, especially the citation bots": "Aggiorna robots.txt con tutti gli AI bot, in particolare i bot di citazione",
	"Create /llms.txt (geo llms --base-url <site>)":                        "Crea /llms.txt (geo llms --base-url <sito>)",
	"Add WebSite JSON-LD schema":                                           "Aggiungi schema WebSite JSON-LD",
	"Add FAQPage schema with frequently asked questions":                   "Aggiungi schema FAQPage con domande frequenti",
	"Add an optimized meta description":                                    "Aggiungi una meta description ottimizzata",
	"Add concrete numeric statistics (+40% AI visibility)":                 "Aggiungi statistiche numeriche concrete (+40% visibilità AI)",
	"Cite authoritative sources with external links":                       "Cita fonti autorevoli con link esterni",

	// llms.txt
	"Website %s available at %s":                      "Sito web %s disponibile su %s",
	"Generated automatically by GEO Optimizer on %s.": "Sito generato automaticamente da GEO Optimizer il %s.",
	"Base URL: %s": "URL base: %s",
	"The main homepage is available at: [%s](%s)": "La homepage principale è disponibile su: [%s](%s)",

	// llms.txt categories
	"Blog & Articles":   "Blog & Articoli",
	"Articles":          "Articoli",
	"Posts":             "Post",
	"Financial Tools":   "Strumenti Finanziari",
	"Health & Wellness": "Salute & Benessere",
	"Math":              "Matematica",
	"Calculators":       "Calcolatori",
	"Tools":             "Strumenti",
	"Applications":      "Applicazioni",
	"Documentation":     "Documentazione",
	"Guides":            "Guide",
	"Tutorials":         "Tutorial",
	"Products":          "Prodotti",
	"Services":          "Servizi",
	"About Us":          "Chi Siamo",
	"Contacts":          "Contatti",
	"Privacy & Legal":   "Privacy & Legal",
	"Terms":             "Termini",
	"Main Pages":        "Pagine Principali",
	"Other":             "Altro",
}
