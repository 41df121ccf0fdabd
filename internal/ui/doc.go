// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views, cycled with tab:
//  1. [BoardView] : the four library lists side by side. Number keys move the selected card,
//     space picks a card up and drops it on another column, / filters with fuzzy matching.
//  2. [TrashView] : the trash with a debounced server-side search, restore and permanent delete.
//  3. [ChatView] : prompts for recommendations; number keys add the selected result to a list.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Library operations run as commands; the Store and trash search notify the model through [Events],
// which re-reads their state instead of carrying it in messages.
//
// Keyboard navigation uses vim-style bindings (h/j/k/l, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
