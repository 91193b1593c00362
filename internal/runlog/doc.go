// Package runlog keeps a small local history of completed jobs in a SQLite
// database. Each run gets one row: what was processed, how many lines
// matched, and how long it took. The store exists so `scriptcut runs` can
// answer "what did I process last week" without scraping log files.
package runlog
