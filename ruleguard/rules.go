package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guards with the same return can be merged:
	//   if a { return err }
	//   if b { return err }
	//   => if a || b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic or reducing algorithmic complexity`)
}

func logging(m dsl.Matcher) {
	// Library code logs through zerolog so output honours LOG_LEVEL and LOG_FORMAT.
	m.Match(`log.Printf($*_)`, `log.Println($*_)`, `log.Print($*_)`).
		Where(m.File().Imports("log") && m.File().PkgPath.Matches(`/internal/`)).
		Report(`use zerolog instead of the standard log package`)

	m.Match(`fmt.Println($*_)`, `fmt.Printf($*_)`, `fmt.Print($*_)`).
		Where(m.File().PkgPath.Matches(`/internal/`)).
		Report(`internal packages must not write to stdout directly; log with zerolog or take an io.Writer`)
}

func httpClients(m dsl.Matcher) {
	// Every outbound call needs an explicit timeout.
	m.Match(`http.DefaultClient`, `http.Get($*_)`, `http.Post($*_)`).
		Where(m.File().PkgPath.Matches(`/internal/`) && !m.File().Name.Matches(`_test\.go$`)).
		Report(`use an *http.Client with a Timeout instead of the default client`)
}
