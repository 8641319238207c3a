package schema

import "strings"

// AstroSnippet returns a BaseLayout.astro head that emits WebSite,
// WebApplication and FAQPage JSON-LD from the layout props.
func AstroSnippet(siteURL, siteName string) string {
	if siteURL == "" {
		siteURL = "https://example.com"
	}
	if siteName == "" {
		siteName = "SiteName"
	}
	return strings.NewReplacer(
		"__SITE_URL__", strings.TrimRight(siteURL, "/"),
		"__SITE_NAME__", siteName,
	).Replace(astroTemplate)
}

const astroTemplate = "---\n" +
	`// In BaseLayout.astro or Layout.astro
interface Props {
  title: string;
  description: string;
  url?: string;
  isCalculator?: boolean;
  faqItems?: Array<{ question: string; answer: string }>;
}

const {
  title,
  description,
  url = Astro.url.href,
  isCalculator = false,
  faqItems = [],
} = Astro.props;

const siteUrl = "__SITE_URL__";
const siteName = "__SITE_NAME__";

const websiteSchema = {
  "@context": "https://schema.org",
  "@type": "WebSite",
  "name": siteName,
  "url": siteUrl,
  "description": description,
  "potentialAction": {
    "@type": "SearchAction",
    "target": ` + "`${siteUrl}/search?q={search_term_string}`" + `,
    "query-input": "required name=search_term_string"
  }
};

const webAppSchema = isCalculator ? {
  "@context": "https://schema.org",
  "@type": "WebApplication",
  "name": title,
  "url": url,
  "description": description,
  "applicationCategory": "UtilityApplication",
  "operatingSystem": "Web",
  "offers": { "@type": "Offer", "price": "0", "priceCurrency": "USD" }
} : null;

const faqSchema = faqItems.length > 0 ? {
  "@context": "https://schema.org",
  "@type": "FAQPage",
  "mainEntity": faqItems.map(item => ({
    "@type": "Question",
    "name": item.question,
    "acceptedAnswer": { "@type": "Answer", "text": item.answer }
  }))
} : null;
---

<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>{title} | {siteName}</title>
  <meta name="description" content={description} />
  <link rel="canonical" href={url} />

  <!-- Open Graph -->
  <meta property="og:title" content={title} />
  <meta property="og:description" content={description} />
  <meta property="og:url" content={url} />
  <meta property="og:type" content="website" />

  <!-- GEO: Schema JSON-LD -->
  <script type="application/ld+json" set:html={JSON.stringify(websiteSchema)} />
  {webAppSchema && <script type="application/ld+json" set:html={JSON.stringify(webAppSchema)} />}
  {faqSchema && <script type="application/ld+json" set:html={JSON.stringify(faqSchema)} />}
</head>
`
