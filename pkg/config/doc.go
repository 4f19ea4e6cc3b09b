/*
Package config loads gradenet's commander and agent configuration from YAML
files. cmd/gradenet reads the file named by its --config flag; no CLI flag
overrides a field loaded from the file.

CommanderConfig carries base_port/test_dir/common_dir/test_timeout/
client_timeout/command_file for the commander, and AgentConfig carries
remote_port/remote_ip/test_dir for the agent, each alongside the NATS URL,
metrics, logging and tracing settings. ReadCommands loads the
commander's ordered grading command list from a plain text file, one shell
command per line.
*/
package config
