package demoserver

// Site variants.
const (
	VariantOptimized = "optimized"
	VariantBare      = "bare"
)

// Resource is one file of the demo site. Body may contain {{base}}, which
// is replaced by the scheme and host of the request.
type Resource struct {
	Path        string
	ContentType string
	Body        string
}

// Variant is a complete version of the demo site.
type Variant struct {
	Name        string
	Description string
	Resources   []Resource
}

// Variants returns every demo site variant keyed by name.
func Variants() map[string]Variant {
	return map[string]Variant{
		VariantOptimized: optimizedSite(),
		VariantBare:      bareSite(),
	}
}

// ===== OPTIMIZED SITE =====
func optimizedSite() Variant {
	return Variant{
		Name:        VariantOptimized,
		Description: "AI-ready site: robots.txt with AI crawlers, llms.txt, sitemap, JSON-LD, meta tags and cited statistics",
		Resources: []Resource{
			{Path: "/", ContentType: "text/html; charset=utf-8", Body: optimizedHome},
			{Path: "/robots.txt", ContentType: "text/plain; charset=utf-8", Body: optimizedRobots},
			{Path: "/llms.txt", ContentType: "text/plain; charset=utf-8", Body: optimizedLlms},
			{Path: "/sitemap.xml", ContentType: "application/xml", Body: optimizedSitemap},
			{Path: "/tools/mortgage-calculator", ContentType: "text/html; charset=utf-8", Body: page("Mortgage Calculator", "Estimate your monthly mortgage payment in seconds.")},
			{Path: "/tools/bmi-calculator", ContentType: "text/html; charset=utf-8", Body: page("BMI Calculator", "Compute your body mass index.")},
			{Path: "/blog/geo-basics", ContentType: "text/html; charset=utf-8", Body: page("GEO Basics", "How generative engines pick the pages they cite.")},
			{Path: "/about", ContentType: "text/html; charset=utf-8", Body: page("About Demo Calc", "Who builds Demo Calc.")},
			{Path: "/privacy", ContentType: "text/html; charset=utf-8", Body: page("Privacy Policy", "How we handle your data.")},
		},
	}
}

// ===== BARE SITE =====
func bareSite() Variant {
	return Variant{
		Name:        VariantBare,
		Description: "Plain homepage without robots.txt, llms.txt, sitemap or structured data",
		Resources: []Resource{
			{Path: "/", ContentType: "text/html; charset=utf-8", Body: bareHome},
		},
	}
}

func page(title, lead string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <title>` + title + ` | Demo Calc</title>
    <meta name="description" content="` + lead + `">
</head>
<body>
    <h1>` + title + `</h1>
    <p>` + lead + `</p>
</body>
</html>`
}

const optimizedHome = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>Demo Calc - Free Online Calculators</title>
    <meta name="description" content="Demo Calc offers free online calculators for finance, health and math, with clear formulas, worked examples and cited sources for every result.">
    <link rel="canonical" href="{{base}}/">
    <meta property="og:title" content="Demo Calc - Free Online Calculators">
    <meta property="og:description" content="Free calculators for finance, health and math.">
    <meta property="og:image" content="{{base}}/static/og.png">
    <script type="application/ld+json">
    {
      "@context": "https://schema.org",
      "@graph": [
        {"@type": "WebSite", "name": "Demo Calc", "url": "{{base}}/",
         "potentialAction": {"@type": "SearchAction", "target": "{{base}}/search?q={search_term_string}", "query-input": "required name=search_term_string"}},
        {"@type": "WebApplication", "name": "Demo Calc", "url": "{{base}}/", "applicationCategory": "UtilityApplication", "operatingSystem": "Any"}
      ]
    }
    </script>
    <script type="application/ld+json">
    {
      "@context": "https://schema.org",
      "@type": "FAQPage",
      "mainEntity": [
        {"@type": "Question", "name": "Are the calculators free?", "acceptedAnswer": {"@type": "Answer", "text": "Yes, every calculator is free."}},
        {"@type": "Question", "name": "Where do the formulas come from?", "acceptedAnswer": {"@type": "Answer", "text": "Each tool links the source of its formula."}}
      ]
    }
    </script>
</head>
<body>
    <h1>Free Online Calculators</h1>
    <p>Demo Calc serves more than 1200 calculations a day across 45 tools.</p>
    <h2>Finance</h2>
    <p>Our mortgage calculator matches bank quotes within 0.5 percentage points in 98% of tested cases.
       Rates follow the <a href="https://www.ecb.europa.eu/stats/">European Central Bank statistics</a>.</p>
    <h2>Health</h2>
    <p>The BMI tool uses the thresholds published by the
       <a href="https://www.who.int/">World Health Organization</a>.</p>
    <h3>Sources</h3>
    <ul>
        <li><a href="/tools/mortgage-calculator">Mortgage Calculator</a></li>
        <li><a href="/tools/bmi-calculator">BMI Calculator</a></li>
        <li><a href="/blog/geo-basics">GEO Basics</a></li>
    </ul>
</body>
</html>`

const optimizedRobots = `# AI crawlers welcome
User-agent: GPTBot
User-agent: OAI-SearchBot
User-agent: ChatGPT-User
Allow: /

User-agent: anthropic-ai
User-agent: ClaudeBot
User-agent: claude-web
Allow: /

User-agent: PerplexityBot
User-agent: Perplexity-User
Disallow:

User-agent: Google-Extended
User-agent: Applebot-Extended
Disallow: /private/

User-agent: Bytespider
Disallow: /

User-agent: *
Disallow: /admin

Sitemap: {{base}}/sitemap.xml
`

const optimizedLlms = `# Demo Calc

> Free online calculators for finance, health and math.

## Tools

- [Mortgage Calculator]({{base}}/tools/mortgage-calculator)
- [BMI Calculator]({{base}}/tools/bmi-calculator)

## Blog

- [GEO Basics]({{base}}/blog/geo-basics)

## Optional

- [Privacy Policy]({{base}}/privacy)
`

const optimizedSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{base}}/</loc><priority>1.0</priority></url>
  <url><loc>{{base}}/tools/mortgage-calculator</loc><priority>0.9</priority></url>
  <url><loc>{{base}}/tools/bmi-calculator</loc><priority>0.8</priority></url>
  <url><loc>{{base}}/blog/geo-basics</loc><priority>0.6</priority></url>
  <url><loc>{{base}}/about</loc><priority>0.5</priority></url>
  <url><loc>{{base}}/privacy</loc><priority>0.1</priority></url>
  <url><loc>{{base}}/admin/login</loc></url>
  <url><loc>{{base}}/static/logo.png</loc></url>
</urlset>
`

const bareHome = `<!DOCTYPE html>
<html>
<head>
    <title>Demo Calc</title>
</head>
<body>
    <h1>Welcome</h1>
    <p>Some calculators live here. Have a look around.</p>
    <a href="/about">About</a>
</body>
</html>`
