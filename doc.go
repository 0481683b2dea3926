/*
Package launcher implements the backline backup bridge.

The project has two main source packages:
`cmd`: Main applications: the native backline CLI and the two legacy
script launchers.
`internal`: Private application and library code.
*/
package launcher
