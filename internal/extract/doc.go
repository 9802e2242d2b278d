// Package extract turns raw fetched markup into plain text, summaries, and
// optionally precise factual answers.
//
// Three independent concerns live here:
//
//   - StripMarkup: drop script/style blocks and tags, collapse whitespace.
//     Never fails; malformed markup degrades to best-effort text.
//   - Summarize: keep the first K sentences using a boundary heuristic that
//     avoids splitting on abbreviations and initials.
//   - Rules: an ordered table of (trigger, extract) pairs keyed by query
//     intent. The built-in office-holder rule recognizes "Incumbent <Name>
//     since" phrasing and encyclopedia URL name segments; further rules
//     come from the config file.
package extract
