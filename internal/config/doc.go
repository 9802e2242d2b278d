// Package config manages omnisearch configuration.
//
// Configuration comes from three layers, later layers winning:
//
//  1. Built-in defaults (NewConfig)
//  2. The optional .omnisearch YAML file (LoadConfigFile, File.Apply)
//  3. CLI flags, applied by the cmd layer
//
// The config file also carries user-defined intent rules for precise-answer
// extraction; patterns are validated at load time.
package config
