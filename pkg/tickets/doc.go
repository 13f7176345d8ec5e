/*
Package tickets holds the presentation rules shared by every ticket source:
the JQL used to find the user's tickets, the numbered listing format, the
"no tickets" sentences and the ticket digest handed to the language model
for summaries.
*/
package tickets
