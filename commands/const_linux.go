package commands

const (
	_etc = "/usr/local/etc/machinelog"
	_var = "/usr/local/var/machinelog"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/sheets/.google/credentials.json"
	DEFAULT_CONFIG      = _etc + "/sheets/machinelog-app-sheets.yaml"
)
