package sampler

// sampleScript runs in the page and returns a JSON encoded RawExtraction.
// Every kind yields exactly one sample; when no matching element is
// visible, document.body stands in.
const sampleScript = `() => {
	const visible = (el) => {
		if (!el) return false;
		const r = el.getBoundingClientRect();
		const s = getComputedStyle(el);
		return r.width > 0 && r.height > 0 && s.visibility !== 'hidden' && s.display !== 'none';
	};
	const pick = (selectors) => {
		for (const sel of selectors) {
			for (const el of document.querySelectorAll(sel)) {
				if (visible(el)) return el;
			}
		}
		return document.body;
	};
	const read = (kind, el) => {
		const s = getComputedStyle(el);
		const out = {
			kind,
			bg: s.backgroundColor,
			color: s.color,
			border: s.borderTopColor,
			radius: s.borderTopLeftRadius,
			shadow: s.boxShadow,
			fontFamily: s.fontFamily,
			fontSize: s.fontSize,
			fontWeight: s.fontWeight,
			padding: [s.paddingTop, s.paddingRight, s.paddingBottom, s.paddingLeft],
		};
		if (kind === 'link') out.accent = s.color;
		if (kind === 'button') out.accent = s.backgroundColor;
		return out;
	};
	const targets = [
		['body', ['body']],
		['h1', ['h1']],
		['h2', ['h2']],
		['h3', ['h3']],
		['text', ['main p', 'article p', 'p']],
		['link', ['main a[href]', 'a[href]']],
		['button', ['button:not([disabled])', '[role="button"]', 'a[class*="btn"]', 'a[class*="button"]', 'input[type="submit"]']],
		['card', ['[class*="card"]', 'article', '[class*="panel"]', '[class*="tile"]']],
		['input', ['input[type="text"]', 'input[type="email"]', 'input[type="search"]', 'input:not([type])', 'textarea', 'select']],
	];
	return JSON.stringify({
		meta: { title: document.title || '', host: location.host, url: location.href },
		prefersDark: matchMedia('(prefers-color-scheme: dark)').matches,
		samples: targets.map(([kind, selectors]) => read(kind, kind === 'body' ? document.body : pick(selectors))),
	});
}`
