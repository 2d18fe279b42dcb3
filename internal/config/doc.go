// Package config provides configuration management for partnerplane.
//
// Configuration is a single YAML file, partnerplane.yaml. It is looked up in
// the working directory, then in ~/.config/partnerplane; the --config flag
// names it explicitly. Defaults are applied first, the file is decoded over
// them (unknown keys are rejected), command line flags override last.
//
// # Configuration Structure
//
//	logLevel: info
//	partnerships:
//	  filename: config/partnerships.xml   # backing XML file (required)
//	  interval: 10s                       # poll interval, omit or 0 to disable watching
//	  debounce: 100ms                     # quiet window before a change is reported
//	processors:
//	  stream:
//	    enabled: true                     # interactive console on stdin/stdout
//	  socket:
//	    enabled: false
//	    address: 127.0.0.1:4321
//	    userid: userID
//	    password: pWd
//	    timeout: 30s
//	    tls:
//	      certFile: ""
//	      keyFile: ""
//	  mcp:
//	    enabled: false
//	    address: 127.0.0.1:8090
//	admin:
//	  enabled: true
//	  address: 127.0.0.1:9090
//
// # Errors
//
// Decoding failures are returned as a ConfigurationError. Validation
// collects every problem into a ConfigurationErrorCollection so an operator
// can fix the file in one pass.
//
// # Usage Examples
//
//	cfg, err := config.LoadConfig(config.DefaultConfigPath())
//	if err != nil {
//	    var cec *config.ConfigurationErrorCollection
//	    if errors.As(err, &cec) {
//	        fmt.Println(cec.GetDetailedReport())
//	    }
//	    return err
//	}
package config
