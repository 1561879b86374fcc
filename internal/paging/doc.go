// Package paging discovers chapter lists that a site embeds as text fragments
// inside script blocks instead of paginated HTML elements. It pages forward
// until the server starts repeating itself, keeps the boundary entries that
// the site renders on every page apart from the regular ones, and merges
// everything into one deduplicated list ordered from the highest chapter
// number to the lowest.
package paging
